// Package books provides the canonical Bible book catalog: canonical names,
// ordinals, OSIS identifiers, Bible sections and the aliases users type.
package books

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/versebot/core/errors"
)

// Section identifies the part of the Bible a book belongs to.
type Section int

// Section constants.
const (
	// SectionUnknown is the zero value and never produced by a catalog lookup.
	SectionUnknown Section = iota
	// OldTestament covers ordinals 1 through 39.
	OldTestament
	// NewTestament covers ordinals 40 through 66.
	NewTestament
	// Deuterocanon covers ordinals above 66.
	Deuterocanon
)

// Ordinal boundaries between sections.
const (
	lastOldTestament = 39
	lastNewTestament = 66
)

// SectionFor returns the section for a canonical ordinal.
func SectionFor(ordinal int) Section {
	switch {
	case ordinal <= 0:
		return SectionUnknown
	case ordinal <= lastOldTestament:
		return OldTestament
	case ordinal <= lastNewTestament:
		return NewTestament
	default:
		return Deuterocanon
	}
}

// String returns the human-readable section name.
func (s Section) String() string {
	switch s {
	case OldTestament:
		return "Old Testament"
	case NewTestament:
		return "New Testament"
	case Deuterocanon:
		return "Deuterocanon"
	default:
		return "Unknown"
	}
}

// Key returns the short key used in configuration files and preference stores.
func (s Section) Key() string {
	switch s {
	case OldTestament:
		return "ot"
	case NewTestament:
		return "nt"
	case Deuterocanon:
		return "deut"
	default:
		return ""
	}
}

// ParseSection accepts a section key ("ot", "nt", "deut") or a full name.
func ParseSection(s string) (Section, bool) {
	switch normalize(s) {
	case "ot", "oldtestament":
		return OldTestament, true
	case "nt", "newtestament":
		return NewTestament, true
	case "deut", "deuterocanon", "apocrypha":
		return Deuterocanon, true
	}
	return SectionUnknown, false
}

// Sections lists every section in canonical order.
func Sections() []Section {
	return []Section{OldTestament, NewTestament, Deuterocanon}
}

// Book is a single catalog entry.
type Book struct {
	// Name is the canonical display name (e.g., "1 John").
	Name string `json:"name"`

	// OSIS is the OSIS book ID (e.g., "1John").
	OSIS string `json:"osis"`

	// Ordinal is the canonical position, 1 through 86.
	Ordinal int `json:"ordinal"`

	// Aliases are the additional names and abbreviations accepted for the book.
	Aliases []string `json:"aliases,omitempty"`
}

// Section returns the section the book belongs to.
func (b *Book) Section() Section {
	return SectionFor(b.Ordinal)
}

// Catalog is an immutable alias index over a set of books.
// It is safe for concurrent use once constructed.
type Catalog struct {
	books   []*Book
	byAlias map[string]*Book
	byName  map[string]*Book
	byOSIS  map[string]*Book
}

// NewCatalog builds a catalog from entries. Every name, OSIS ID and alias must
// normalize to a key that is unique across the whole catalog.
func NewCatalog(entries []Book) (*Catalog, error) {
	c := &Catalog{
		books:   make([]*Book, 0, len(entries)),
		byAlias: make(map[string]*Book),
		byName:  make(map[string]*Book, len(entries)),
		byOSIS:  make(map[string]*Book, len(entries)),
	}

	ordinals := make(map[int]string, len(entries))
	for i := range entries {
		b := entries[i]
		b.Aliases = append([]string(nil), b.Aliases...)

		if b.Name == "" {
			return nil, errors.NewValidation("name", fmt.Sprintf("entry %d has no name", i))
		}
		if b.Ordinal <= 0 {
			return nil, errors.NewValidation("ordinal", fmt.Sprintf("%s has ordinal %d", b.Name, b.Ordinal))
		}
		if other, dup := ordinals[b.Ordinal]; dup {
			return nil, errors.NewValidation("ordinal", fmt.Sprintf("%s and %s share ordinal %d", other, b.Name, b.Ordinal))
		}
		ordinals[b.Ordinal] = b.Name

		book := &b
		c.books = append(c.books, book)
		c.byName[normalize(b.Name)] = book
		if b.OSIS != "" {
			c.byOSIS[strings.ToLower(b.OSIS)] = book
		}

		keys := append([]string{b.Name, b.OSIS}, b.Aliases...)
		for _, alias := range keys {
			key := normalize(alias)
			if key == "" {
				continue
			}
			if other, dup := c.byAlias[key]; dup && other != book {
				return nil, errors.NewValidation("alias", fmt.Sprintf("%q maps to both %s and %s", alias, other.Name, b.Name))
			}
			c.byAlias[key] = book
		}
	}

	sort.Slice(c.books, func(i, j int) bool { return c.books[i].Ordinal < c.books[j].Ordinal })
	return c, nil
}

// MustNewCatalog is like NewCatalog but panics on error.
// Use it only for tables compiled into the binary.
func MustNewCatalog(entries []Book) *Catalog {
	c, err := NewCatalog(entries)
	if err != nil {
		panic(fmt.Sprintf("books: invalid catalog: %v", err))
	}
	return c
}

// Lookup resolves any recognized alias to its book.
// Matching ignores case, whitespace and periods.
func (c *Catalog) Lookup(alias string) (*Book, bool) {
	b, ok := c.byAlias[normalize(alias)]
	return b, ok
}

// Ordinal returns the canonical ordinal for a canonical book name.
func (c *Catalog) Ordinal(name string) (int, bool) {
	b, ok := c.byName[normalize(name)]
	if !ok {
		return 0, false
	}
	return b.Ordinal, true
}

// ByOSIS returns the book with the given OSIS ID.
func (c *Catalog) ByOSIS(id string) (*Book, bool) {
	b, ok := c.byOSIS[strings.ToLower(strings.TrimSpace(id))]
	return b, ok
}

// Books returns all books in canonical order.
func (c *Catalog) Books() []*Book {
	out := make([]*Book, len(c.books))
	copy(out, c.books)
	return out
}

// Len returns the number of books in the catalog.
func (c *Catalog) Len() int {
	return len(c.books)
}

// normalize folds an alias to its lookup key.
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
