package hadronia

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWorkerRecoversFromPanic(t *testing.T) {
	// no reconstructor: processing dereferences nil
	broken := &Analysis{config: pionPairConfig(), Stats: NewRunStats()}

	result := broken.processJob(2, workerJob{Seq: 5, Event: pairEvent(5, true)})
	assert.Equal(t, 5, result.Seq)
	assert.Nil(t, result.Records)
	assert.NoError(t, result.Err)
	assert.Equal(t, 1.0, testutil.ToFloat64(broken.Stats.Outcomes.WithLabelValues(OutcomePanic)))
}

func TestProcessWorkerResultsReorders(t *testing.T) {
	analysis, err := NewAnalysis(pionPairConfig(), nil)
	assert.NoError(t, err)

	results := make(chan workerResult, 4)
	for _, seq := range []int{2, 0, 3, 1} {
		event := pairEvent(seq, true)
		records, err := analysis.ProcessEvent(&event)
		assert.NoError(t, err)
		results <- workerResult{Seq: seq, Event: event, Records: records}
	}
	close(results)

	sink := &MemorySink{}
	assert.NoError(t, analysis.processWorkerResults(results, sink))
	assert.Equal(t, []int{0, 1, 2, 3}, sink.Events)
}
