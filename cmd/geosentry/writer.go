package main

import (
	"os"

	"geosentry/internal/sim"
)

// newWriters sets up sample, event, and verdict writers based on flags
// and env vars. quiet suppresses the stdout fallback so nothing streams
// to the terminal while the TUI owns it; any returned writer may be nil.
// The cleanup function closes any resources.
func newWriters(printOnly, quiet bool, logFile string) (sim.SampleWriter, sim.EventWriter, sim.VerdictWriter, func(), error) {
	cleanup := func() {}

	samples, events, verdicts, err := baseWriters(printOnly, quiet)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if logFile == "" {
		return samples, events, verdicts, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".events", logFile+".verdicts")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sws := []sim.SampleWriter{}
	if samples != nil {
		sws = append(sws, samples)
	}
	ews := []sim.EventWriter{}
	if events != nil {
		ews = append(ews, events)
	}
	vws := []sim.VerdictWriter{}
	if verdicts != nil {
		vws = append(vws, verdicts)
	}
	mw := sim.NewMultiWriter(append(sws, fw), append(ews, fw), append(vws, fw))
	cleanup = func() { fw.Close() }
	return mw, mw, mw, cleanup, nil
}

// baseWriters chooses GreptimeDB when configured, stdout otherwise, and
// nothing at all when quiet blocks the stdout fallback.
func baseWriters(printOnly, quiet bool) (sim.SampleWriter, sim.EventWriter, sim.VerdictWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if quiet {
			return nil, nil, nil, nil
		}
		w := sim.NewStdoutWriter()
		return w, w, w, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := sim.NewGreptimeDBWriter(endpoint, database,
		os.Getenv("SAMPLE_TABLE"), os.Getenv("EVENT_TABLE"), os.Getenv("VERDICT_TABLE"))
	if err != nil {
		return nil, nil, nil, err
	}
	return w, w, w, nil
}
