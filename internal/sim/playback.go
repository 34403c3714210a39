package sim

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"geosentry/internal/engine"
	"geosentry/internal/logging"
	"geosentry/internal/track"
)

// ReplayLog feeds recorded location samples from r back through the
// engine, writing the resulting events. A speed > 0 reproduces the
// original inter-sample timing, scaled; speed <= 0 replays as fast as
// possible.
func ReplayLog(ctx context.Context, r io.Reader, eng *engine.Engine, events EventWriter, speed float64) error {
	log := logging.FromContext(ctx)
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var s track.LocationSample
		if err := dec.Decode(&s); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := s.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				select {
				case <-time.After(diff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		prev = s.Timestamp

		res, err := eng.ProcessLocationUpdate(engine.LocationUpdate{
			EntityID:  s.EntityID,
			Point:     s.Point,
			AccuracyM: s.AccuracyM,
			SpeedKmh:  s.SpeedKmh,
			Timestamp: s.Timestamp,
			Source:    "replay",
		})
		if err != nil {
			log.Error("replayed sample rejected", "entity_id", s.EntityID, "err", err)
			continue
		}
		if err := writeEvents(events, res.Events); err != nil {
			return err
		}
	}
}

// ReplayLogFile opens a sample log and replays it through the engine.
func ReplayLogFile(ctx context.Context, path string, eng *engine.Engine, events EventWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(ctx, f, eng, events, speed)
}
