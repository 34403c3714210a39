package sim

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"geosentry/internal/anomaly"
	"geosentry/internal/geo"
	"geosentry/internal/track"
)

func TestFileWriterWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	samplePath := filepath.Join(dir, "samples.jsonl")
	eventPath := filepath.Join(dir, "events.jsonl")
	verdictPath := filepath.Join(dir, "verdicts.jsonl")

	fw, err := NewFileWriter(samplePath, eventPath, verdictPath)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.LocationSample{
		{EntityID: "t1", Point: geo.Point{Lat: 28.61, Lon: 77.22}, Timestamp: ts, Source: "test"},
		{EntityID: "t2", Point: geo.Point{Lat: 28.62, Lon: 77.23}, Timestamp: ts, Source: "test"},
	}
	if err := fw.WriteSamples(samples); err != nil {
		t.Fatalf("WriteSamples failed: %v", err)
	}
	if err := fw.WriteEvent(track.GeofenceEvent{ID: "e1", EntityID: "t1", Type: track.EventExit}); err != nil {
		t.Fatalf("WriteEvent failed: %v", err)
	}
	if err := fw.WriteVerdict(anomaly.Verdict{EntityID: "t1", Type: anomaly.VerdictMovement}); err != nil {
		t.Fatalf("WriteVerdict failed: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var got []track.LocationSample
	f, err := os.Open(samplePath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var s track.LocationSample
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			t.Fatalf("bad JSONL line: %v", err)
		}
		got = append(got, s)
	}
	if len(got) != 2 || got[0].EntityID != "t1" || got[1].EntityID != "t2" {
		t.Errorf("sample log = %+v", got)
	}
}

func TestFileWriterSkipsDisabledStreams(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "samples.jsonl"), "", "")
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer fw.Close()

	if err := fw.WriteEvent(track.GeofenceEvent{ID: "e1"}); err != nil {
		t.Errorf("disabled event stream should be a no-op, got %v", err)
	}
	if err := fw.WriteVerdict(anomaly.Verdict{EntityID: "t1"}); err != nil {
		t.Errorf("disabled verdict stream should be a no-op, got %v", err)
	}
}
