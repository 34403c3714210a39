package sim

import (
	"geosentry/internal/anomaly"
	"geosentry/internal/track"
)

// MultiWriter fans samples, events, and verdicts out to multiple writers.
type MultiWriter struct {
	samples  []SampleWriter
	events   []EventWriter
	verdicts []VerdictWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []SampleWriter, ews []EventWriter, vws []VerdictWriter) *MultiWriter {
	return &MultiWriter{samples: sws, events: ews, verdicts: vws}
}

// WriteSample sends a sample to all sample writers.
func (mw *MultiWriter) WriteSample(s track.LocationSample) error {
	for _, w := range mw.samples {
		if err := w.WriteSample(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteSamples sends samples to all writers, using batch mode if supported.
func (mw *MultiWriter) WriteSamples(rows []track.LocationSample) error {
	for _, w := range mw.samples {
		if err := writeSamples(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent sends an event to all event writers.
func (mw *MultiWriter) WriteEvent(e track.GeofenceEvent) error {
	for _, w := range mw.events {
		if err := w.WriteEvent(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends events to all writers, using batch mode if supported.
func (mw *MultiWriter) WriteEvents(rows []track.GeofenceEvent) error {
	for _, w := range mw.events {
		if err := writeEvents(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteVerdict sends a verdict to all verdict writers.
func (mw *MultiWriter) WriteVerdict(v anomaly.Verdict) error {
	for _, w := range mw.verdicts {
		if err := w.WriteVerdict(v); err != nil {
			return err
		}
	}
	return nil
}

// WriteVerdicts sends verdicts to all writers, using batch mode if supported.
func (mw *MultiWriter) WriteVerdicts(rows []anomaly.Verdict) error {
	for _, w := range mw.verdicts {
		if err := writeVerdicts(w, rows); err != nil {
			return err
		}
	}
	return nil
}
