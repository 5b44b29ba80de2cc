// Package fetch wraps a passage Fetcher with an in-memory cache, a per-call
// timeout and a bounded parallel prefetch.
package fetch

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/versebot/core/cache"
	"github.com/FocuswithJustin/versebot/core/response"
	"github.com/FocuswithJustin/versebot/core/verse"
	"github.com/FocuswithJustin/versebot/internal/logging"
)

// Options configures a Cached fetcher.
type Options struct {
	// Entries caps the number of cached passages (0 = unlimited).
	Entries int

	// MaxBytes caps the total size of cached passage text (0 = unlimited).
	MaxBytes int64

	// TTL expires cached passages (0 = never).
	TTL time.Duration

	// Timeout bounds each call to the wrapped fetcher (0 = none).
	Timeout time.Duration
}

// Cached is a response.Fetcher that remembers passages by verse key.
// Misses and errors are not cached. It is safe for concurrent use.
type Cached struct {
	next    response.Fetcher
	cache   *cache.BoundedCache[verse.Key, response.Passage]
	timeout time.Duration
}

// NewCached wraps next.
func NewCached(next response.Fetcher, opts Options) *Cached {
	return &Cached{
		next: next,
		cache: cache.NewBoundedCache[verse.Key, response.Passage](
			cache.Config{MaxSize: opts.Entries, TTL: opts.TTL},
			opts.MaxBytes,
			passageSize,
		),
		timeout: opts.Timeout,
	}
}

func passageSize(p response.Passage) int64 {
	return int64(len(p.Content) + len(p.TranslationTitle) + len(p.Permalink))
}

// Fetch implements response.Fetcher.
func (c *Cached) Fetch(ctx context.Context, v *verse.Verse) (*response.Passage, error) {
	key := v.Key()
	if p, ok := c.cache.Get(key); ok {
		return &p, nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	p, err := c.next.Fetch(ctx, v)
	if err != nil {
		logging.FetchFailed(ctx, v.Reference(), v.Translation, err)
		return nil, err
	}
	if p == nil || p.Content == "" {
		return p, nil
	}

	c.cache.Put(key, *p)
	out := *p
	return &out, nil
}

// Stats returns cache statistics.
func (c *Cached) Stats() cache.Stats {
	return c.cache.Stats()
}

// Purge drops every cached passage.
func (c *Cached) Purge() {
	c.cache.Clear()
}

// Prefetch fetches verses in parallel, at most limit at a time, so that a
// caching fetcher is warm before a Builder walks them in order. Failures
// are left for the Builder to record. It returns how many verses had
// content.
func Prefetch(ctx context.Context, f response.Fetcher, verses []*verse.Verse, limit int) int {
	if limit < 1 {
		limit = 1
	}

	var found atomic.Int64
	var g errgroup.Group
	g.SetLimit(limit)

	for _, v := range verses {
		v := v // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			p, err := f.Fetch(ctx, v)
			if err == nil && p != nil && p.Content != "" {
				found.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()
	return int(found.Load())
}
