package main

import (
	"fmt"
	"io"

	hadronia "github.com/spinthyia/hadronia_go/pkg"
)

// FileReader applies the skip and max_events settings on top of an event
// source. Skipped events count towards max_events.
type FileReader struct {
	Source    hadronia.EventSource
	Skip      int
	MaxEvents int
	Verbosity int
	EvtCount  int
}

func NewFileReader(source hadronia.EventSource, config hadronia.Configuration) *FileReader {
	return &FileReader{
		Source:    source,
		Skip:      config.Skip,
		MaxEvents: config.MaxEvents,
		Verbosity: config.Verbosity,
		EvtCount:  -1,
	}
}

func (f *FileReader) Next() (hadronia.Event, error) {
	for {
		event, err := f.Source.Next()
		if err != nil {
			return event, err
		}
		f.EvtCount++
		if f.EvtCount >= f.MaxEvents {
			if f.Verbosity > 0 {
				logger.Info("Max events reached", "fileReader")
			}
			return hadronia.Event{}, io.EOF
		}
		if f.EvtCount < f.Skip {
			if f.Verbosity > 1 {
				message := fmt.Sprintf("Skipping event %d", event.Number)
				logger.Info(message, "fileReader")
			}
			continue
		}
		if f.Verbosity > 2 {
			message := fmt.Sprintf("Reading event %d with %d particles", event.Number, len(event.Particles))
			logger.Info(message, "fileReader")
		}
		return event, nil
	}
}
