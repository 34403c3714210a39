package sim

import (
	"context"
	"sync"
	"time"

	"geosentry/internal/anomaly"
	"geosentry/internal/engine"
	"geosentry/internal/feed"
	"geosentry/internal/logging"
	"geosentry/internal/track"
)

// EntityStatus is a per-traveler snapshot for the admin surface and TUI.
type EntityStatus struct {
	EntityID   string    `json:"entity_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Zones      []string  `json:"zones"`
	EventCount int       `json:"event_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Runner drives the engine from the simulated feed on a fixed tick.
type Runner struct {
	eng          *engine.Engine
	gen          *feed.Generator
	samples      SampleWriter
	events       EventWriter
	verdicts     VerdictWriter
	tickInterval time.Duration

	mu     sync.Mutex
	status map[string]EntityStatus
}

// NewRunner wires the feed, engine, and writers together. Any writer may
// be nil to skip that stream.
func NewRunner(eng *engine.Engine, gen *feed.Generator, samples SampleWriter, events EventWriter, verdicts VerdictWriter, tickInterval time.Duration) *Runner {
	return &Runner{
		eng:          eng,
		gen:          gen,
		samples:      samples,
		events:       events,
		verdicts:     verdicts,
		tickInterval: tickInterval,
		status:       make(map[string]EntityStatus),
	}
}

// Run starts the tick loop and stops when the context is done.
func (r *Runner) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting runner", "tick_interval", r.tickInterval, "entities", len(r.gen.Travelers))
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Tick(ctx)
		case <-ctx.Done():
			log.Info("stopping runner")
			return
		}
	}
}

// Tick processes one feed round: every observation flows through the
// engine and the results fan out to the writers. Behavior is scored
// before the location update is applied, so the jump detector compares
// against the previous position instead of the observation's own point.
// A writer failure is logged, never fatal; the engine state already
// holds the samples.
func (r *Runner) Tick(ctx context.Context) {
	log := logging.FromContext(ctx)
	var samples []track.LocationSample
	var events []track.GeofenceEvent
	var verdicts []anomaly.Verdict

	for _, o := range r.gen.Tick() {
		verdicts = append(verdicts, r.eng.DetectBehaviorAnomalies(o.Behavior)...)
		if o.Update != nil {
			res, err := r.eng.ProcessLocationUpdate(*o.Update)
			if err != nil {
				log.Error("location update rejected", "entity_id", o.Update.EntityID, "err", err)
				continue
			}
			samples = append(samples, res.Sample)
			events = append(events, res.Events...)
			r.recordStatus(res)
		}
	}

	if err := writeSamples(r.samples, samples); err != nil {
		log.Error("sample write failed", "err", err)
	}
	if err := writeEvents(r.events, events); err != nil {
		log.Error("event write failed", "err", err)
	}
	if err := writeVerdicts(r.verdicts, verdicts); err != nil {
		log.Error("verdict write failed", "err", err)
	}
}

func (r *Runner) recordStatus(res engine.UpdateResult) {
	names := make([]string, 0, len(res.Membership.Containing))
	for _, z := range res.Membership.Containing {
		names = append(names, z.Name)
	}
	r.mu.Lock()
	s := r.status[res.Sample.EntityID]
	s.EntityID = res.Sample.EntityID
	s.Lat = res.Sample.Point.Lat
	s.Lon = res.Sample.Point.Lon
	s.Zones = names
	s.EventCount += len(res.Events)
	s.UpdatedAt = res.Sample.Timestamp
	r.status[res.Sample.EntityID] = s
	r.mu.Unlock()
}

// Snapshot returns the latest status for every observed entity.
func (r *Runner) Snapshot() []EntityStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EntityStatus, 0, len(r.status))
	for _, s := range r.status {
		out = append(out, s)
	}
	return out
}

// Engine exposes the underlying engine for the admin surface.
func (r *Runner) Engine() *engine.Engine {
	return r.eng
}
