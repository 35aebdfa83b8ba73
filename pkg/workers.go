package hadronia

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type workerJob struct {
	Seq   int
	Event Event
}

type workerResult struct {
	Seq     int
	Event   Event
	Records []Record
	Err     error
}

func (a *Analysis) worker(id int, jobs <-chan workerJob, results chan<- workerResult) {
	for job := range jobs {
		results <- a.processJob(id, job)
	}
}

func (a *Analysis) processJob(id int, job workerJob) workerResult {
	result := workerResult{Seq: job.Seq, Event: job.Event}
	if a.config.Verbosity > 2 {
		message := fmt.Sprintf("Worker %d processing event %d", id, job.Event.Number)
		logger.Info(message, "workers")
	}
	result.Records, result.Err = a.handleRecovered(&result.Event)
	return result
}

// sendEventsToWorkers feeds jobs until the source is exhausted, fails or the
// context is cancelled. Read errors other than io.EOF are returned.
func (a *Analysis) sendEventsToWorkers(ctx context.Context, source EventSource, jobs chan<- workerJob) error {
	defer close(jobs)
	for seq := 0; ; seq++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		event, err := source.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading event: %w", err)
		}
		a.Stats.Events.Inc()
		select {
		case jobs <- workerJob{Seq: seq, Event: event}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *Analysis) runParallel(ctx context.Context, source EventSource, sink RecordSink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	nWorkers := a.config.NumWorkers
	jobs := make(chan workerJob, nWorkers)
	results := make(chan workerResult, nWorkers)

	var readErr error
	var producer sync.WaitGroup
	producer.Add(1)
	go func() {
		defer producer.Done()
		readErr = a.sendEventsToWorkers(ctx, source, jobs)
	}()

	var workers sync.WaitGroup
	for id := 0; id < nWorkers; id++ {
		workers.Add(1)
		go func(id int) {
			defer workers.Done()
			a.worker(id, jobs, results)
		}(id)
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	runErr := a.processWorkerResults(results, sink)
	if runErr != nil {
		cancel()
		// drain so that blocked workers can exit
		for range results {
		}
	}
	producer.Wait()

	if runErr != nil {
		return runErr
	}
	if readErr != nil {
		return readErr
	}
	a.summary()
	return nil
}

// processWorkerResults writes results in input order, holding back the ones
// that arrive ahead of their turn.
func (a *Analysis) processWorkerResults(results <-chan workerResult, sink RecordSink) error {
	pending := make(map[int]workerResult)
	next := 0
	for result := range results {
		pending[result.Seq] = result
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if r.Err != nil {
				return r.Err
			}
			if err := a.emit(sink, &r.Event, r.Records, next); err != nil {
				return err
			}
		}
	}
	return nil
}
