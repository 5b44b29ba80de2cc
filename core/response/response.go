// Package response assembles the reply posted for one incoming message.
//
// A Builder collects resolved verses in the order they were cited, fetches
// their text through a Fetcher and renders either the full quotations or,
// when those would exceed the length limit, a list of links.
package response

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/versebot/core/errors"
	"github.com/FocuswithJustin/versebot/core/verse"
)

// Defaults for Config.
const (
	DefaultMaxLength = 6000
	DefaultSearchURL = "https://www.biblegateway.com/passage/"
)

// Passage is the rendered text of a verse as returned by a Fetcher.
type Passage struct {
	Content          string `json:"content"`
	TranslationTitle string `json:"translation_title"`
	Permalink        string `json:"permalink"`
}

// Fetcher retrieves passage text. A nil passage with a nil error means the
// passage does not exist; an error means the lookup itself failed. Builders
// treat both as "no content".
type Fetcher interface {
	Fetch(ctx context.Context, v *verse.Verse) (*Passage, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, v *verse.Verse) (*Passage, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, v *verse.Verse) (*Passage, error) {
	return f(ctx, v)
}

// LocalTranslations reports which translations are served from a local
// corpus. The search service does not carry them.
type LocalTranslations interface {
	IsLocal(code string) bool
}

// Linker computes the permalink of a verse without fetching it. An empty
// result means no permalink is known.
type Linker interface {
	Link(v *verse.Verse) string
}

// Config controls reply assembly.
type Config struct {
	// MaxLength is the character budget of a full reply. Default 6000.
	MaxLength int

	// SearchURL is the passage search endpoint used for overflow links.
	SearchURL string

	// Local identifies local-source translations. Nil means none are local.
	Local LocalTranslations

	// Links computes overflow links for local-source translations, so a
	// passage that failed to load still gets its permalink.
	Links Linker
}

func (c Config) withDefaults() Config {
	if c.MaxLength <= 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.SearchURL == "" {
		c.SearchURL = DefaultSearchURL
	}
	return c
}

// Failure records a verse that contributed no content.
type Failure struct {
	Verse *verse.Verse
	Err   error
}

// Builder accumulates the verses cited in one message.
// It is not safe for concurrent use and must not be reused across messages.
type Builder struct {
	source  string
	fetcher Fetcher
	cfg     Config

	verses []*verse.Verse
	seen   map[verse.Key]struct{}

	built      bool
	output     string
	ok         bool
	overflowed bool
	failures   []Failure
}

// NewBuilder creates a builder for the message text source.
func NewBuilder(source string, fetcher Fetcher, cfg Config) *Builder {
	return &Builder{
		source:  source,
		fetcher: fetcher,
		cfg:     cfg.withDefaults(),
		seen:    make(map[verse.Key]struct{}),
	}
}

// Source returns the message text the builder was created for.
func (b *Builder) Source() string {
	return b.source
}

// IsDuplicate reports whether a verse with the same book, chapter, verse
// range and translation was already added.
func (b *Builder) IsDuplicate(v *verse.Verse) bool {
	_, dup := b.seen[v.Key()]
	return dup
}

// Add appends v. Duplicates and verses added after Build are ignored; the
// return value reports whether v was kept.
func (b *Builder) Add(v *verse.Verse) bool {
	if v == nil || b.built || b.IsDuplicate(v) {
		return false
	}
	b.seen[v.Key()] = struct{}{}
	b.verses = append(b.verses, v)
	return true
}

// Verses returns the accumulated verses in citation order.
func (b *Builder) Verses() []*verse.Verse {
	out := make([]*verse.Verse, len(b.verses))
	copy(out, b.verses)
	return out
}

// Len returns the number of accumulated verses.
func (b *Builder) Len() int {
	return len(b.verses)
}

// Overflowed reports whether Build fell back to the link list.
func (b *Builder) Overflowed() bool {
	return b.overflowed
}

// Failures lists the verses that produced no content during Build.
func (b *Builder) Failures() []Failure {
	out := make([]Failure, len(b.failures))
	copy(out, b.failures)
	return out
}

// Build fetches every verse and renders the reply. It returns false when no
// verse produced content, in which case nothing should be posted. Build runs
// once; later calls return the first result.
func (b *Builder) Build(ctx context.Context) (string, bool) {
	if b.built {
		return b.output, b.ok
	}
	b.built = true

	var sb strings.Builder
	for _, v := range b.verses {
		if !b.fetch(ctx, v) {
			continue
		}
		writeBlock(&sb, v)
	}

	if sb.Len() == 0 {
		return "", false
	}

	b.output = sb.String()
	if utf8.RuneCountInString(b.output) > b.cfg.MaxLength {
		b.output = b.overflow()
		b.overflowed = true
	}
	b.ok = true
	return b.output, true
}

// fetch fills v from the fetcher and reports whether it has content.
func (b *Builder) fetch(ctx context.Context, v *verse.Verse) bool {
	if err := ctx.Err(); err != nil {
		b.fail(v, err)
		return false
	}
	if b.fetcher == nil {
		b.fail(v, errors.NewUnsupported("fetch", "no fetcher configured"))
		return false
	}

	p, err := b.fetcher.Fetch(ctx, v)
	if err != nil {
		b.fail(v, err)
		return false
	}
	if p == nil || p.Content == "" {
		b.fail(v, errors.NewNotFound("passage", v.String()))
		return false
	}

	v.Content = p.Content
	v.TranslationTitle = p.TranslationTitle
	if v.TranslationTitle == "" {
		v.TranslationTitle = v.Translation
	}
	v.Permalink = p.Permalink
	return true
}

func (b *Builder) fail(v *verse.Verse, err error) {
	b.failures = append(b.failures, Failure{Verse: v, Err: err})
}

// writeBlock renders one quotation: a linked header, the quoted text and a
// blank line.
func writeBlock(sb *strings.Builder, v *verse.Verse) {
	fmt.Fprintf(sb, "[**%s | %s**](%s)\n\n>", v.Reference(), v.TranslationTitle, v.Permalink)
	sb.WriteString(v.Content)
	sb.WriteString("\n\n")
}

// overflow renders the link-only reply from the verses already held.
func (b *Builder) overflow() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The contents of the verse(s) you quoted exceed the %d character limit. "+
		"Instead, here are links to the verse(s)!\n\n", b.cfg.MaxLength)

	for _, v := range b.verses {
		fmt.Fprintf(&sb, "- [%s (%s)](%s)\n\n", v.Reference(), v.Translation, b.link(v))
	}
	return sb.String()
}

// link picks the overflow link for v. Local translations use the computed
// permalink, falling back to the fetched one; whole chapters use their
// fetched permalink; everything else gets a search URL.
func (b *Builder) link(v *verse.Verse) string {
	if b.cfg.Local != nil && b.cfg.Local.IsLocal(v.Translation) {
		if b.cfg.Links != nil {
			if l := b.cfg.Links.Link(v); l != "" {
				return l
			}
		}
		if v.Permalink != "" {
			return v.Permalink
		}
	}
	if v.Permalink != "" && v.WholeChapter() {
		return v.Permalink
	}
	return SearchURL(b.cfg.SearchURL, v)
}

// SearchURL builds the passage-search link for v against base.
func SearchURL(base string, v *verse.Verse) string {
	q := url.Values{}
	q.Set("search", v.Reference())
	q.Set("version", v.Translation)
	return base + "?" + q.Encode()
}
