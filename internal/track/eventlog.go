package track

import "sync"

// DefaultEventLogCap bounds the per-entity event log. The log is append-only;
// once full, the oldest events are dropped.
const DefaultEventLogCap = 1000

// EventLog keeps geofence events per entity, sharded like HistoryStore.
type EventLog struct {
	cap    int
	mu     sync.RWMutex
	shards map[string]*entityEvents
}

type entityEvents struct {
	mu     sync.Mutex
	events []GeofenceEvent
}

// NewEventLog creates a log with the given per-entity cap.
// A cap <= 0 falls back to DefaultEventLogCap.
func NewEventLog(cap int) *EventLog {
	if cap <= 0 {
		cap = DefaultEventLogCap
	}
	return &EventLog{cap: cap, shards: make(map[string]*entityEvents)}
}

func (l *EventLog) shard(entityID string) *entityEvents {
	l.mu.RLock()
	s, ok := l.shards[entityID]
	l.mu.RUnlock()
	if ok {
		return s
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok = l.shards[entityID]; ok {
		return s
	}
	s = &entityEvents{}
	l.shards[entityID] = s
	return s
}

// Append stores events for their entity, oldest dropped past the cap.
func (l *EventLog) Append(events ...GeofenceEvent) {
	for _, e := range events {
		s := l.shard(e.EntityID)
		s.mu.Lock()
		s.events = append(s.events, e)
		if len(s.events) > l.cap {
			s.events = s.events[len(s.events)-l.cap:]
		}
		s.mu.Unlock()
	}
}

// Get returns the entity's events, oldest first.
func (l *EventLog) Get(entityID string) []GeofenceEvent {
	s := l.shard(entityID)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GeofenceEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Resolve marks the event with the given id resolved and reports whether
// it was found.
func (l *EventLog) Resolve(entityID, eventID string) bool {
	s := l.shard(entityID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].Resolved = true
			return true
		}
	}
	return false
}
