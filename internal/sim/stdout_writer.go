package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"geosentry/internal/anomaly"
	"geosentry/internal/track"
)

// StdoutWriter prints samples, events, and verdicts as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

func (w *StdoutWriter) encode(kind string, v any) error {
	data, _ := json.Marshal(v)
	fmt.Fprintf(w.out, "{\"kind\":%q,\"record\":%s}\n", kind, data)
	return nil
}

// WriteSample outputs one location sample.
func (w *StdoutWriter) WriteSample(s track.LocationSample) error {
	return w.encode("sample", s)
}

// WriteEvent outputs one geofence event.
func (w *StdoutWriter) WriteEvent(e track.GeofenceEvent) error {
	return w.encode("event", e)
}

// WriteVerdict outputs one anomaly verdict.
func (w *StdoutWriter) WriteVerdict(v anomaly.Verdict) error {
	return w.encode("verdict", v)
}
