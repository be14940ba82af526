package cache

import (
	"sort"
	"sync"

	"courtfinder/internal/domain"
)

// Memory is a process-local availability cache. Entries never expire; they
// live until deleted, cleared or the process exits. One lock guards the map
// since entries are only ever replaced or removed whole.
//
// gen counts invalidations. A reader that computed a value before an
// invalidation stores it with SetIfGeneration, which drops it.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]domain.ClubWithAvailability
	gen     uint64
}

var _ domain.AvailabilityCache = (*Memory)(nil)

// NewMemory returns an empty cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]domain.ClubWithAvailability)}
}

// Get returns the stored value and whether key is present. A present entry may be empty.
func (m *Memory) Get(key string) ([]domain.ClubWithAvailability, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *Memory) Set(key string, value []domain.ClubWithAvailability) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// SetIfGeneration stores value unless the cache was invalidated after gen was read.
func (m *Memory) SetIfGeneration(key string, value []domain.ClubWithAvailability, gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return false
	}
	m.entries[key] = value
	return true
}

// Generation returns the current invalidation count.
func (m *Memory) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	m.gen++
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	m.gen++
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns the current keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeleteWhere scans every entry under the write lock and removes those match
// selects, so no Set can interleave between the match and the delete. The
// generation advances even when nothing matched: a value being computed for
// a key not yet cached may still predate the change.
func (m *Memory) DeleteWhere(match func(key string, value []domain.ClubWithAvailability) bool) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	var removed []string
	for k, v := range m.entries {
		if match(k, v) {
			delete(m.entries, k)
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	return removed
}
