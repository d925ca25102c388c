package cache

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// entry is a stored value with its absolute expiry instant.
type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-memory key/value cache with per-entry expiry and
// glob-style invalidation. It is safe for concurrent use; get, set and
// invalidate are atomic with respect to each other.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	policy  *TTLPolicy

	nowFunc func() time.Time
}

// NewStore creates an empty store. A nil policy selects DefaultTTLPolicy.
func NewStore(policy *TTLPolicy) *Store {
	if policy == nil {
		policy = DefaultTTLPolicy()
	}
	return &Store{
		entries: make(map[string]entry),
		policy:  policy,
		nowFunc: time.Now,
	}
}

// Get returns the value stored under key, or false if the key is absent or
// expired. Expired entries are evicted on read.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		cacheMisses.Inc()
		return nil, false
	}
	if s.nowFunc().After(e.expiresAt) {
		delete(s.entries, key)
		cacheEvictions.Inc()
		cacheMisses.Inc()
		return nil, false
	}
	cacheHits.Inc()
	return e.value, true
}

// Set stores value under key, unconditionally overwriting any existing
// entry. A non-positive ttl selects the TTL from the store's policy based
// on the key's resource category.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.policy.TTLFor(key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: s.nowFunc().Add(ttl),
	}
}

// Invalidate removes every entry whose key matches the glob pattern, where
// '*' matches any run of characters. Returns the number of entries removed.
func (s *Store) Invalidate(pattern string) int {
	re := compileGlob(pattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if re.MatchString(key) {
			delete(s.entries, key)
			removed++
		}
	}
	cacheInvalidations.Add(float64(removed))
	return removed
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Stats describes the live contents of the store.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Stats sweeps expired entries and reports the remaining key set, sorted.
// Logically expired entries are never reported as present.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			cacheEvictions.Inc()
		}
	}

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return Stats{Size: len(keys), Keys: keys}
}

// GetTyped returns the value stored under key when it is present, live and
// of type T.
func GetTyped[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// compileGlob translates a glob pattern into an anchored regexp. Patterns
// are compiled per call; invalidation only happens on mutations.
func compileGlob(pattern string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, `.*`)
	return regexp.MustCompile("^" + escaped + "$")
}
