package hadronia

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Event outcomes counted by RunStats.
const (
	OutcomeAccepted     = "accepted"
	OutcomeNoCandidates = "no_candidates"
	OutcomeFiltered     = "filtered"
	OutcomeCut          = "cut"
	OutcomeSkipped      = "skipped"
	OutcomePanic        = "panic"
)

// RunStats holds the counters of one analysis run. Each run owns its own
// registry so several runs can coexist in a process.
type RunStats struct {
	Registry   *prometheus.Registry
	Events     prometheus.Counter
	Outcomes   *prometheus.CounterVec
	Candidates *prometheus.CounterVec
	Records    prometheus.Counter
}

func NewRunStats() *RunStats {
	s := &RunStats{
		Registry: prometheus.NewRegistry(),
		Events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hadronia",
			Name:      "events_total",
			Help:      "Events read from the input.",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hadronia",
			Name:      "event_outcomes_total",
			Help:      "Events by processing outcome.",
		}, []string{"outcome"}),
		Candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hadronia",
			Name:      "candidates_total",
			Help:      "Hadronium sets after each processing stage.",
		}, []string{"stage"}),
		Records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hadronia",
			Name:      "records_written_total",
			Help:      "Output rows handed to the writer.",
		}),
	}
	s.Registry.MustRegister(s.Events, s.Outcomes, s.Candidates, s.Records)
	return s
}

func (s *RunStats) outcome(name string) {
	s.Outcomes.WithLabelValues(name).Inc()
}

func (s *RunStats) candidates(stage string, n int) {
	s.Candidates.WithLabelValues(stage).Add(float64(n))
}

// counterValue reads the current value of a counter.
func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
