package zone

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a zone id is unknown to the registry.
var ErrNotFound = errors.New("zone not found")

// Registry is the shared, read-mostly store of safe zones.
// Reads may run concurrently at any time; admin writes take the write lock
// so evaluations never observe a half-updated zone.
type Registry struct {
	mu    sync.RWMutex
	zones map[string]SafeZone
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{zones: make(map[string]SafeZone)}
}

// Upsert validates and stores a zone. A zone without an id gets a generated
// one; the assigned id is returned and stays stable for the life of the zone.
func (r *Registry) Upsert(z SafeZone) (string, error) {
	if err := z.Validate(); err != nil {
		return "", err
	}
	if z.ID == "" {
		z.ID = uuid.New().String()
	}
	r.mu.Lock()
	r.zones[z.ID] = z
	r.mu.Unlock()
	return z.ID, nil
}

// Get returns the zone with the given id.
func (r *Registry) Get(id string) (SafeZone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	z, ok := r.zones[id]
	if !ok {
		return SafeZone{}, ErrNotFound
	}
	return z, nil
}

// ListFilter narrows List results. Zero value matches everything.
type ListFilter struct {
	Type       Type
	ActiveOnly bool
}

// List returns matching zones ordered by ascending id.
func (r *Registry) List(f ListFilter) []SafeZone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []SafeZone
	for _, z := range r.zones {
		if f.ActiveOnly && !z.Active {
			continue
		}
		if f.Type != "" && z.Type != f.Type {
			continue
		}
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove deletes a zone and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.zones[id]; !ok {
		return false
	}
	delete(r.zones, id)
	return true
}
