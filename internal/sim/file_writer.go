package sim

import (
	"encoding/json"
	"os"

	"geosentry/internal/anomaly"
	"geosentry/internal/track"
)

// FileWriter writes samples, events, and verdicts to JSONL files. The
// sample log can later be fed back through ReplayLogFile.
type FileWriter struct {
	sampleFile  *os.File
	eventFile   *os.File
	verdictFile *os.File
	sampleEnc   *json.Encoder
	eventEnc    *json.Encoder
	verdictEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. eventPath or verdictPath may be
// empty to skip those logs.
func NewFileWriter(samplePath, eventPath, verdictPath string) (*FileWriter, error) {
	sf, err := os.Create(samplePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{sampleFile: sf, sampleEnc: json.NewEncoder(sf)}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	if verdictPath != "" {
		vf, err := os.Create(verdictPath)
		if err != nil {
			if fw.eventFile != nil {
				fw.eventFile.Close()
			}
			sf.Close()
			return nil, err
		}
		fw.verdictFile = vf
		fw.verdictEnc = json.NewEncoder(vf)
	}
	return fw, nil
}

// WriteSample logs a single location sample.
func (f *FileWriter) WriteSample(s track.LocationSample) error {
	return f.sampleEnc.Encode(s)
}

// WriteSamples logs multiple location samples.
func (f *FileWriter) WriteSamples(rows []track.LocationSample) error {
	for _, r := range rows {
		if err := f.WriteSample(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent logs a geofence event, if enabled.
func (f *FileWriter) WriteEvent(e track.GeofenceEvent) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(e)
}

// WriteEvents logs multiple geofence events.
func (f *FileWriter) WriteEvents(rows []track.GeofenceEvent) error {
	for _, r := range rows {
		if err := f.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteVerdict logs an anomaly verdict, if enabled.
func (f *FileWriter) WriteVerdict(v anomaly.Verdict) error {
	if f.verdictEnc == nil {
		return nil
	}
	return f.verdictEnc.Encode(v)
}

// WriteVerdicts logs multiple anomaly verdicts.
func (f *FileWriter) WriteVerdicts(rows []anomaly.Verdict) error {
	for _, r := range rows {
		if err := f.WriteVerdict(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.sampleFile, f.eventFile, f.verdictFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
