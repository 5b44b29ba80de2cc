// Package verse turns recognized citations into resolved verse references.
package verse

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/versebot/core/books"
	"github.com/FocuswithJustin/versebot/core/citation"
	"github.com/FocuswithJustin/versebot/core/translation"
)

// Verse is a citation after book and translation canonicalization.
//
// Content, TranslationTitle and Permalink are empty until a fetch fills them.
// VerseStart 0 means the whole chapter, in which case VerseEnd is 0 and
// OpenEnded is false. An open-ended range has VerseEnd 0. Otherwise
// VerseEnd >= VerseStart.
type Verse struct {
	Book        string        `json:"book"`
	OSIS        string        `json:"osis"`
	Section     books.Section `json:"section"`
	Chapter     int           `json:"chapter"`
	VerseStart  int           `json:"verse_start,omitempty"`
	VerseEnd    int           `json:"verse_end,omitempty"`
	OpenEnded   bool          `json:"open_ended,omitempty"`
	Translation string        `json:"translation"`

	Content          string `json:"content,omitempty"`
	TranslationTitle string `json:"translation_title,omitempty"`
	Permalink        string `json:"permalink,omitempty"`
}

// Key identifies a verse for duplicate suppression. Two verses are
// duplicates exactly when their keys are equal.
type Key struct {
	Book        string
	Chapter     int
	VerseStart  int
	VerseEnd    int
	OpenEnded   bool
	Translation string
}

// Key returns the duplicate-suppression key.
func (v *Verse) Key() Key {
	return Key{
		Book:        v.Book,
		Chapter:     v.Chapter,
		VerseStart:  v.VerseStart,
		VerseEnd:    v.VerseEnd,
		OpenEnded:   v.OpenEnded,
		Translation: v.Translation,
	}
}

// WholeChapter reports whether the verse denotes an entire chapter.
func (v *Verse) WholeChapter() bool {
	return v.VerseStart == 0
}

// Verses returns the verse portion: "", "3", "3-5" or "5-".
func (v *Verse) Verses() string {
	return citation.VerseSpec{Start: v.VerseStart, End: v.VerseEnd, OpenEnded: v.OpenEnded}.String()
}

// Reference renders "Genesis 1:3-5", or "Genesis 1" for a whole chapter.
func (v *Verse) Reference() string {
	ref := v.Book + " " + strconv.Itoa(v.Chapter)
	if spec := v.Verses(); spec != "" {
		ref += ":" + spec
	}
	return ref
}

// HasContent reports whether a fetch produced text for the verse.
func (v *Verse) HasContent() bool {
	return v.Content != ""
}

// String returns the reference followed by the translation code.
func (v *Verse) String() string {
	return v.Reference() + " (" + v.Translation + ")"
}

// Resolver converts citations into verses. It is safe for concurrent use.
type Resolver struct {
	books        *books.Catalog
	translations *translation.Resolver
}

// NewResolver creates a resolver over a book catalog and a translation
// resolver. Nil arguments select the built-in catalog and standard defaults.
func NewResolver(catalog *books.Catalog, translations *translation.Resolver) *Resolver {
	if catalog == nil {
		catalog = books.Default()
	}
	if translations == nil {
		translations = translation.NewResolver(translation.StandardDefaults())
	}
	return &Resolver{books: catalog, translations: translations}
}

// Books returns the catalog the resolver uses.
func (r *Resolver) Books() *books.Catalog {
	return r.books
}

// Resolve canonicalizes one citation. It returns false when the book alias
// is unknown, which callers treat as "not a citation".
func (r *Resolver) Resolve(c citation.Citation, prefs ...translation.Lookup) (*Verse, bool) {
	book, ok := r.books.Lookup(c.Book)
	if !ok {
		c, book, ok = r.joinChapter(c)
	}
	if !ok || c.Chapter < 1 {
		return nil, false
	}
	section := book.Section()

	v := &Verse{
		Book:        book.Name,
		OSIS:        book.OSIS,
		Section:     section,
		Chapter:     c.Chapter,
		Translation: r.translations.Resolve(c.Translation, section, prefs...),
	}

	switch {
	case c.VerseStart <= 0:
	case c.OpenEnded:
		v.VerseStart = c.VerseStart
		v.OpenEnded = true
	case c.VerseEnd < c.VerseStart:
		// A hand-built citation with a descending range reads as the whole chapter.
	default:
		v.VerseStart = c.VerseStart
		v.VerseEnd = c.VerseEnd
	}

	return v, true
}

// joinChapter handles a chapter typed with spaces in it. "[gen 1 2:3]" scans
// as book "gen 1", chapter 2; trailing digit groups move from the book to the
// front of the chapter until the book is known, giving Genesis 12:3.
func (r *Resolver) joinChapter(c citation.Citation) (citation.Citation, *books.Book, bool) {
	name, digits := c.Book, strconv.Itoa(c.Chapter)
	for {
		i := strings.LastIndexByte(name, ' ')
		if i < 0 || !isDigits(name[i+1:]) {
			return c, nil, false
		}
		name, digits = strings.TrimSpace(name[:i]), name[i+1:]+digits

		if book, ok := r.books.Lookup(name); ok {
			chapter, err := strconv.Atoi(digits)
			if err != nil {
				return c, nil, false
			}
			c.Book, c.Chapter = name, chapter
			return c, book, true
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveAll resolves citations in order, dropping unknown books.
func (r *Resolver) ResolveAll(citations []citation.Citation, prefs ...translation.Lookup) []*Verse {
	verses := make([]*Verse, 0, len(citations))
	for _, c := range citations {
		if v, ok := r.Resolve(c, prefs...); ok {
			verses = append(verses, v)
		}
	}
	return verses
}
