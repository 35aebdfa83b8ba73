package hadronia

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// EventSource yields fully materialized events; io.EOF ends the stream.
type EventSource interface {
	Next() (Event, error)
}

// RecordSink receives the surviving records of one event, in input order.
type RecordSink interface {
	Write(event *Event, records []Record) error
}

// Analysis runs reconstruct, filter, kinematics and cuts over a stream of
// events. All of its state is read-only once built, apart from the counters.
type Analysis struct {
	config        Configuration
	reconstructor *Reconstructor
	rules         FilterRules
	cuts          Cuts
	mode          Mode
	Stats         *RunStats
}

func NewAnalysis(config Configuration, acceptance *AcceptanceProfile) (*Analysis, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	pattern, err := ParsePattern(config.Criteria)
	if err != nil {
		return nil, err
	}
	options := ReconstructOptions{
		AllowDiquarkDescendants: config.AllowDiquarkDescendants,
		MaxCombinations:         config.MaxCombinations,
	}
	return &Analysis{
		config:        config,
		reconstructor: NewReconstructor(pattern, acceptance, options),
		rules:         config.Rules.FilterRules(),
		cuts:          config.Cuts,
		mode:          config.Mode,
		Stats:         NewRunStats(),
	}, nil
}

func (a *Analysis) Mode() Mode {
	return a.mode
}

func (a *Analysis) Pattern() Pattern {
	return a.reconstructor.Pattern()
}

// ProcessEvent returns one record per candidate surviving the filter and
// the cuts. Events without candidates give no records and no error.
func (a *Analysis) ProcessEvent(event *Event) ([]Record, error) {
	if a.config.RecomputeDiquark {
		event.MarkDiquarkDescendants()
	}

	sets, err := a.reconstructor.Reconstruct(event)
	if err != nil {
		return nil, err
	}
	a.Stats.candidates("reconstructed", len(sets))
	if len(sets) == 0 {
		a.Stats.outcome(OutcomeNoCandidates)
		return nil, nil
	}

	if !a.rules.IsEmpty() {
		sets = Filter(sets, a.rules)
		a.Stats.candidates("filtered", len(sets))
		if len(sets) == 0 {
			a.Stats.outcome(OutcomeFiltered)
			return nil, nil
		}
	}

	calculator, err := NewCalculator(event)
	if err != nil {
		return nil, err
	}
	eventKinematics := calculator.Event()
	hadrons, err := calculator.Hadrons(a.mode, sets)
	if err != nil {
		return nil, err
	}

	var records []Record
	for i, hadron := range hadrons {
		record := Record{
			EventNumber: event.Number,
			Event:       eventKinematics,
			Hadron:      hadron,
			Set:         sets[i],
		}
		if a.cuts.Pass(record) {
			records = append(records, record)
		}
	}
	a.Stats.candidates("accepted", len(records))
	if len(records) == 0 {
		a.Stats.outcome(OutcomeCut)
		return nil, nil
	}
	a.Stats.outcome(OutcomeAccepted)
	return records, nil
}

// skippable reports errors that drop the current event but not the run.
func skippable(err error) bool {
	return errors.Is(err, ErrNoScatteredLepton) ||
		errors.Is(err, ErrShortEvent) ||
		errors.Is(err, ErrTooManyCombinations)
}

// handle wraps ProcessEvent, logging and counting skipped events. Only
// errors that invalidate the whole run are returned.
func (a *Analysis) handle(event *Event) ([]Record, error) {
	records, err := a.ProcessEvent(event)
	if err == nil {
		return records, nil
	}
	if skippable(err) {
		a.Stats.outcome(OutcomeSkipped)
		if a.config.Verbosity > 1 {
			message := fmt.Sprintf("Skipping event %d: %v", event.Number, err)
			logger.Info(message, "analysis")
		}
		return nil, nil
	}
	return nil, fmt.Errorf("event %d: %w", event.Number, err)
}

// handleRecovered is handle with a panic turned into a dropped event.
func (a *Analysis) handleRecovered(event *Event) (records []Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Stats.outcome(OutcomePanic)
			message := fmt.Sprintf("Recovered from panic on event %d: %v", event.Number, r)
			logger.Error(message)
			records, err = nil, nil
		}
	}()
	return a.handle(event)
}

// Run processes every event of source and hands the records to sink. With
// Parallel set the events are processed by NumWorkers workers, and the
// output order is still the input order.
func (a *Analysis) Run(ctx context.Context, source EventSource, sink RecordSink) error {
	if a.config.Parallel && a.config.NumWorkers > 1 {
		return a.runParallel(ctx, source, sink)
	}

	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		event, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading event: %w", err)
		}
		a.Stats.Events.Inc()

		records, err := a.handleRecovered(&event)
		if err != nil {
			return err
		}
		processed++
		if err := a.emit(sink, &event, records, processed); err != nil {
			return err
		}
	}
	a.summary()
	return nil
}

// emit is called from a single goroutine, once per event in input order.
func (a *Analysis) emit(sink RecordSink, event *Event, records []Record, processed int) error {
	if len(records) > 0 {
		if err := sink.Write(event, records); err != nil {
			return fmt.Errorf("error writing event %d: %w", event.Number, err)
		}
		a.Stats.Records.Add(float64(len(records)))
		a.printCandidates(event, records)
	}
	a.progress(processed)
	return nil
}

func (a *Analysis) progress(n int) {
	every := a.config.ProgressEvery
	if a.config.Verbosity < 1 || every <= 0 {
		return
	}
	if n%every == 0 {
		message := fmt.Sprintf("Processed %d events, %d records written", n, int(counterValue(a.Stats.Records)))
		logger.Info(message, "analysis")
	}
}

func (a *Analysis) printCandidates(event *Event, records []Record) {
	if a.config.Verbosity < 2 {
		return
	}
	written := int(counterValue(a.Stats.Records))
	if written-len(records) >= a.config.PrintCandidates {
		return
	}
	for _, r := range records {
		message := fmt.Sprintf("Event %d candidate ids %v\n%s", event.Number, r.Set.IDs(), r.Set)
		logger.Info(message, "analysis")
	}
}

func (a *Analysis) summary() {
	if a.config.Verbosity < 1 {
		return
	}
	message := fmt.Sprintf("Finished: %d events read, %d accepted, %d skipped, %d records written",
		int(counterValue(a.Stats.Events)),
		int(counterValue(a.Stats.Outcomes.WithLabelValues(OutcomeAccepted))),
		int(counterValue(a.Stats.Outcomes.WithLabelValues(OutcomeSkipped))),
		int(counterValue(a.Stats.Records)))
	logger.Info(message, "analysis")
}
