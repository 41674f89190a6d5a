// Package session holds per-session state that outlives a single render,
// such as the outcome of the last tariff-code search.
package session

import (
	"sync"
	"time"

	"github.com/sells-group/tradeflow/internal/engine"
)

// SearchKey is the key under which the last search outcome is stored.
const SearchKey = "search"

// SearchResult is the outcome of one fuzzy tariff-code search.
type SearchResult struct {
	DatasetID  string         `json:"dataset_id" yaml:"dataset_id"`
	Query      string         `json:"query" yaml:"query"`
	Matches    []engine.Match `json:"matches" yaml:"matches"`
	SearchedAt time.Time      `json:"searched_at" yaml:"searched_at"`
}

// Codes returns the matched codes in rank order.
func (r *SearchResult) Codes() []string {
	return engine.Codes(r.Matches)
}

// Contains reports whether code is one of the matches.
func (r *SearchResult) Contains(code string) bool {
	for _, m := range r.Matches {
		if m.Code == code {
			return true
		}
	}
	return false
}

// Store is session-scoped key/value state. Values persist until
// overwritten; nothing is cleared automatically.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)

	// Search returns the last search outcome, if any.
	Search() (*SearchResult, bool)
	// SetSearch replaces the last search outcome.
	SetSearch(r *SearchResult)
}

// MemoryStore is an in-process Store safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Search returns the last search outcome.
func (s *MemoryStore) Search() (*SearchResult, bool) {
	v, ok := s.Get(SearchKey)
	if !ok {
		return nil, false
	}
	r, ok := v.(*SearchResult)
	return r, ok && r != nil
}

// SetSearch replaces the last search outcome.
func (s *MemoryStore) SetSearch(r *SearchResult) {
	s.Set(SearchKey, r)
}
