package source

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/FocuswithJustin/versebot/core/response"
	"github.com/FocuswithJustin/versebot/core/translation"
	"github.com/FocuswithJustin/versebot/core/verse"
)

// Local is a Fetcher over local corpora. It is safe for concurrent use.
type Local struct {
	mu         sync.RWMutex
	corpora    map[string]*Corpus
	permalinks map[string]string
}

// NewLocal creates an empty local source.
func NewLocal() *Local {
	return &Local{
		corpora:    make(map[string]*Corpus),
		permalinks: make(map[string]string),
	}
}

// Add registers a corpus under its translation code. permalink is a template
// in which "{osis}", "{book}", "{chapter}" and "{verses}" are substituted;
// it may be empty.
func (l *Local) Add(c *Corpus, permalink string) {
	code := translation.Canonicalize(c.Translation)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.corpora[code] = c
	l.permalinks[code] = permalink
}

// Has reports whether a corpus is registered for code.
func (l *Local) Has(code string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.corpora[translation.Canonicalize(code)]
	return ok
}

// IsLocal implements response.LocalTranslations.
func (l *Local) IsLocal(code string) bool {
	return l.Has(code)
}

// Link implements response.Linker by expanding the permalink template
// registered for v's translation. It needs no fetch.
func (l *Local) Link(v *verse.Verse) string {
	l.mu.RLock()
	tmpl := l.permalinks[translation.Canonicalize(v.Translation)]
	l.mu.RUnlock()
	return Permalink(tmpl, v)
}

// Fetch implements response.Fetcher. A translation without a corpus, or a
// passage the corpus does not contain, yields a nil passage.
func (l *Local) Fetch(ctx context.Context, v *verse.Verse) (*response.Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	c, ok := l.corpora[v.Translation]
	tmpl := l.permalinks[v.Translation]
	l.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	content, ok := c.Passage(v.OSIS, v.Chapter, v.VerseStart, v.VerseEnd, v.OpenEnded)
	if !ok {
		return nil, nil
	}

	title := c.Title
	if !strings.EqualFold(title, v.Translation) {
		title += " (" + v.Translation + ")"
	}

	return &response.Passage{
		Content:          content,
		TranslationTitle: title,
		Permalink:        Permalink(tmpl, v),
	}, nil
}

// Permalink expands a permalink template for v.
func Permalink(tmpl string, v *verse.Verse) string {
	if tmpl == "" {
		return ""
	}
	r := strings.NewReplacer(
		"{osis}", url.PathEscape(v.OSIS),
		"{book}", url.PathEscape(v.Book),
		"{chapter}", strconv.Itoa(v.Chapter),
		"{verses}", url.PathEscape(v.Verses()),
	)
	return r.Replace(tmpl)
}

// Chain tries each fetcher in order and returns the first passage found.
// Errors are remembered and returned only when no fetcher has the passage.
type Chain []response.Fetcher

// Fetch implements response.Fetcher.
func (c Chain) Fetch(ctx context.Context, v *verse.Verse) (*response.Passage, error) {
	var firstErr error
	for _, f := range c {
		p, err := f.Fetch(ctx, v)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, firstErr
}
