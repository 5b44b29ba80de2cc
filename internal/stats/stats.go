// Package stats keeps in-memory usage tallies: how often each book and
// translation is quoted, how often each channel uses the bot and how many
// replies have been posted.
package stats

import (
	"sort"
	"strings"
	"sync"

	"github.com/FocuswithJustin/versebot/core/books"
	"github.com/FocuswithJustin/versebot/core/citation"
	"github.com/FocuswithJustin/versebot/core/verse"
)

// Count is one tally entry.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Snapshot is a point-in-time copy of every tally, each sorted by count
// (highest first) and then by name.
type Snapshot struct {
	Replies      int     `json:"replies" yaml:"replies"`
	Books        []Count `json:"books" yaml:"books"`
	Translations []Count `json:"translations" yaml:"translations"`
	Channels     []Count `json:"channels" yaml:"channels"`
}

// Recorder accumulates tallies. It is safe for concurrent use.
type Recorder struct {
	catalog *books.Catalog

	mu           sync.Mutex
	replies      int
	books        map[string]int
	translations map[string]int
	channels     map[string]int
}

// NewRecorder creates an empty recorder. The catalog canonicalizes book
// names recovered from posted replies; nil selects the built-in catalog.
func NewRecorder(catalog *books.Catalog) *Recorder {
	if catalog == nil {
		catalog = books.Default()
	}
	return &Recorder{
		catalog:      catalog,
		books:        make(map[string]int),
		translations: make(map[string]int),
		channels:     make(map[string]int),
	}
}

// Record counts a posted reply and every verse it quoted.
func (r *Recorder) Record(channel string, verses []*verse.Verse) {
	channel = channelKey(channel)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.replies++
	for _, v := range verses {
		r.books[v.Book]++
		r.translations[v.Translation]++
		if channel != "" {
			r.channels[channel]++
		}
	}
}

// Retract undoes the tallies of a reply that is being edited or deleted,
// recovering its quotations from the posted text. It returns the number of
// quotations found.
func (r *Recorder) Retract(channel, reply string) int {
	quoted := citation.ScanQuoted(reply)
	channel = channelKey(channel)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.replies > 0 {
		r.replies--
	}
	for _, q := range quoted {
		name := q.Book
		if b, ok := r.catalog.Lookup(q.Book); ok {
			name = b.Name
		}
		decrement(r.books, name)
		decrement(r.translations, q.Translation)
		if channel != "" {
			decrement(r.channels, channel)
		}
	}
	return len(quoted)
}

// Snapshot copies the current tallies.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		Replies:      r.replies,
		Books:        sorted(r.books),
		Translations: sorted(r.translations),
		Channels:     sorted(r.channels),
	}
}

// decrement lowers a tally, dropping it at zero.
func decrement(m map[string]int, key string) {
	n, ok := m[key]
	if !ok {
		return
	}
	if n <= 1 {
		delete(m, key)
		return
	}
	m[key] = n - 1
}

func sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func channelKey(channel string) string {
	return strings.ToLower(strings.TrimSpace(channel))
}
