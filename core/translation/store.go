package translation

import (
	"strings"
	"sync"
	"time"

	"github.com/FocuswithJustin/versebot/core/books"
)

// Store keeps per-subject default translations.
type Store interface {
	Provider
	Get(subject string) (Defaults, bool)
	Set(subject string, defaults Defaults)
	Delete(subject string) bool
}

type storeEntry struct {
	defaults Defaults
	lastUsed time.Time
}

// MapStore is an in-memory Store safe for concurrent use. Subjects are
// case-insensitive.
type MapStore struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
	now     func() time.Time
}

// NewMapStore creates an empty store.
func NewMapStore() *MapStore {
	return &MapStore{
		entries: make(map[string]*storeEntry),
		now:     time.Now,
	}
}

// Lookup implements Provider.
func (s *MapStore) Lookup(subject string, section books.Section) (string, bool) {
	d, ok := s.Get(subject)
	if !ok {
		return "", false
	}
	return d.Lookup(section)
}

// Get returns the defaults stored for subject.
func (s *MapStore) Get(subject string) (Defaults, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[subjectKey(subject)]
	if !ok {
		return Defaults{}, false
	}
	return e.defaults, true
}

// Set stores defaults for subject and marks it as used now.
func (s *MapStore) Set(subject string, defaults Defaults) {
	key := subjectKey(subject)
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &storeEntry{defaults: defaults.Normalize(), lastUsed: s.now()}
}

// Delete removes subject and reports whether it was present.
func (s *MapStore) Delete(subject string) bool {
	key := subjectKey(subject)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Touch records that subject's defaults were just used.
func (s *MapStore) Touch(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[subjectKey(subject)]; ok {
		e.lastUsed = s.now()
	}
}

// Prune removes subjects whose defaults have not been used within maxAge
// and returns how many were removed.
func (s *MapStore) Prune(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for key, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored subjects.
func (s *MapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func subjectKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
