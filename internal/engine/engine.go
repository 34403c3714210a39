// Engine ties history, membership evaluation, transition detection, and
// anomaly scoring together behind two entry points.
package engine

import (
	"fmt"
	"sync"
	"time"

	"geosentry/internal/anomaly"
	"geosentry/internal/geo"
	"geosentry/internal/track"
	"geosentry/internal/zone"
)

// Options tunes the engine; zero values fall back to defaults.
type Options struct {
	HistoryCap       int
	EventLogCap      int
	ViolationRadiusM float64
	Thresholds       anomaly.Thresholds
	Now              func() time.Time
}

// LocationUpdate is one inbound position report.
type LocationUpdate struct {
	EntityID  string
	Point     geo.Point
	AccuracyM *float64
	SpeedKmh  *float64
	Timestamp time.Time
	Source    string
}

// UpdateResult reports what one location update produced.
type UpdateResult struct {
	Sample     track.LocationSample
	Membership zone.Membership
	Events     []track.GeofenceEvent
}

// Engine is the orchestrator facade. Updates for one entity are
// serialized through a per-entity mutex; different entities proceed in
// parallel with no shared mutable state beyond the zone registry.
type Engine struct {
	registry   *zone.Registry
	evaluator  *zone.Evaluator
	history    *track.HistoryStore
	events     *track.EventLog
	aggregator *anomaly.Aggregator

	violationRadiusM float64
	thresholds       anomaly.Thresholds
	now              func() time.Time

	mu          sync.Mutex
	entityLocks map[string]*sync.Mutex
}

// New creates an engine around the given registry.
func New(registry *zone.Registry, opts Options) *Engine {
	if opts.ViolationRadiusM <= 0 {
		opts.ViolationRadiusM = track.DefaultViolationRadiusM
	}
	if opts.Thresholds == (anomaly.Thresholds{}) {
		opts.Thresholds = anomaly.DefaultThresholds()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		registry:         registry,
		evaluator:        zone.NewEvaluator(registry),
		history:          track.NewHistoryStore(opts.HistoryCap),
		events:           track.NewEventLog(opts.EventLogCap),
		aggregator:       anomaly.NewAggregator(),
		violationRadiusM: opts.ViolationRadiusM,
		thresholds:       opts.Thresholds,
		now:              opts.Now,
	}
}

func (e *Engine) entityLock(entityID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.entityLocks[entityID]
	if !ok {
		if e.entityLocks == nil {
			e.entityLocks = make(map[string]*sync.Mutex)
		}
		l = &sync.Mutex{}
		e.entityLocks[entityID] = l
	}
	return l
}

// ProcessLocationUpdate validates the point, appends it to history,
// evaluates membership for the current and immediately-preceding sample,
// and emits any transition events to the entity's log. On the first
// observation for an entity only the baseline is seeded.
func (e *Engine) ProcessLocationUpdate(u LocationUpdate) (UpdateResult, error) {
	if u.EntityID == "" {
		return UpdateResult{}, fmt.Errorf("entity id required")
	}
	if err := u.Point.Validate(); err != nil {
		return UpdateResult{}, fmt.Errorf("invalid location for %s: %w", u.EntityID, err)
	}
	ts := u.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}

	l := e.entityLock(u.EntityID)
	l.Lock()
	defer l.Unlock()

	prev, hasPrev := e.history.Last(u.EntityID)

	sample := track.LocationSample{
		EntityID:  u.EntityID,
		Point:     u.Point,
		AccuracyM: u.AccuracyM,
		SpeedKmh:  u.SpeedKmh,
		Timestamp: ts,
		Source:    u.Source,
	}
	// History append comes first: an event-path failure never drops a
	// valid sample.
	e.history.Append(sample)

	curr := e.evaluator.Evaluate(u.Point)
	res := UpdateResult{Sample: sample, Membership: curr}
	if !hasPrev {
		return res, nil
	}

	prevMembership := e.evaluator.Evaluate(prev.Point)
	res.Events = track.DetectTransitions(u.EntityID, prevMembership, curr, u.Point, ts, e.violationRadiusM)
	e.events.Append(res.Events...)
	return res, nil
}

// DetectBehaviorAnomalies runs the detector set over one sample. The
// last known historical position feeds the jump detector; nothing is
// persisted, the caller owns the verdicts.
func (e *Engine) DetectBehaviorAnomalies(s anomaly.BehaviorSample) []anomaly.Verdict {
	ctx := anomaly.Context{Thresholds: e.thresholds, Now: e.now()}
	if last, ok := e.history.Last(s.EntityID); ok {
		p := last.Point
		ctx.LastKnown = &p
	}
	return e.aggregator.RunAll(s, ctx)
}

// History returns up to limit samples for the entity, oldest first.
func (e *Engine) History(entityID string, limit int) []track.LocationSample {
	return e.history.Get(entityID, limit)
}

// Events returns the entity's geofence event log, oldest first.
func (e *Engine) Events(entityID string) []track.GeofenceEvent {
	return e.events.Get(entityID)
}

// ResolveEvent marks an event resolved on behalf of an operator.
func (e *Engine) ResolveEvent(entityID, eventID string) bool {
	return e.events.Resolve(entityID, eventID)
}

// Registry exposes the zone store for the admin surface.
func (e *Engine) Registry() *zone.Registry {
	return e.registry
}

// EvaluateMembership answers a point-in-zone query without recording
// anything.
func (e *Engine) EvaluateMembership(p geo.Point) (zone.Membership, error) {
	if err := p.Validate(); err != nil {
		return zone.Membership{}, err
	}
	return e.evaluator.Evaluate(p), nil
}
