package track

import "sync"

// DefaultHistoryCap bounds how many samples are kept per entity.
const DefaultHistoryCap = 100

// HistoryStore keeps a bounded, time-ordered sample buffer per entity.
// Each entity owns an independent, lock-guarded shard, so appends for
// different entities never contend.
type HistoryStore struct {
	cap    int
	mu     sync.RWMutex
	shards map[string]*entityHistory
}

type entityHistory struct {
	mu      sync.Mutex
	samples []LocationSample
}

// NewHistoryStore creates a store with the given per-entity cap.
// A cap <= 0 falls back to DefaultHistoryCap.
func NewHistoryStore(cap int) *HistoryStore {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &HistoryStore{cap: cap, shards: make(map[string]*entityHistory)}
}

func (s *HistoryStore) shard(entityID string) *entityHistory {
	s.mu.RLock()
	h, ok := s.shards[entityID]
	s.mu.RUnlock()
	if ok {
		return h
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok = s.shards[entityID]; ok {
		return h
	}
	h = &entityHistory{}
	s.shards[entityID] = h
	return h
}

// Append inserts a sample at the tail, evicting the oldest when the cap
// is exceeded.
func (s *HistoryStore) Append(sample LocationSample) {
	h := s.shard(sample.EntityID)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = append(h.samples, sample)
	if len(h.samples) > s.cap {
		h.samples = h.samples[len(h.samples)-s.cap:]
	}
}

// Get returns up to limit samples for the entity, oldest first.
// A limit <= 0 returns the full buffer.
func (s *HistoryStore) Get(entityID string, limit int) []LocationSample {
	h := s.shard(entityID)
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.samples)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]LocationSample, n)
	copy(out, h.samples[len(h.samples)-n:])
	return out
}

// Last returns the most recent sample for the entity, if any.
func (s *HistoryStore) Last(entityID string) (LocationSample, bool) {
	h := s.shard(entityID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.samples) == 0 {
		return LocationSample{}, false
	}
	return h.samples[len(h.samples)-1], true
}
