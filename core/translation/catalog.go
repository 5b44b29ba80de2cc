package translation

import (
	"sort"

	"github.com/FocuswithJustin/versebot/core/books"
	"github.com/FocuswithJustin/versebot/core/errors"
)

// Translation describes one supported Bible translation.
type Translation struct {
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
	Language     string `json:"language" yaml:"language"`
	HasOT        bool   `json:"has_ot" yaml:"has_ot"`
	HasNT        bool   `json:"has_nt" yaml:"has_nt"`
	HasDeut      bool   `json:"has_deut" yaml:"has_deut"`
	Available    bool   `json:"available" yaml:"available"`

	// Local marks translations served from a corpus on disk rather than
	// the remote passage service.
	Local bool `json:"local,omitempty" yaml:"local,omitempty"`
}

// Covers reports whether the translation contains books of section.
func (t Translation) Covers(section books.Section) bool {
	switch section {
	case books.OldTestament:
		return t.HasOT
	case books.NewTestament:
		return t.HasNT
	case books.Deuterocanon:
		return t.HasDeut
	default:
		return false
	}
}

// Title renders the display title used in reply headers, e.g.
// "English Standard Version (ESV)".
func (t Translation) Title() string {
	if t.Name == "" {
		return t.Abbreviation
	}
	return t.Name + " (" + t.Abbreviation + ")"
}

// Availability answers whether a translation may be used for a section.
type Availability interface {
	IsValid(code string, section books.Section) bool
}

// Catalog is an immutable set of translations keyed by canonical code.
type Catalog struct {
	byCode map[string]Translation
	codes  []string
}

// NewCatalog builds a catalog. Abbreviations are canonicalized; an empty or
// repeated abbreviation is a ValidationError.
func NewCatalog(translations []Translation) (*Catalog, error) {
	c := &Catalog{byCode: make(map[string]Translation, len(translations))}

	for _, t := range translations {
		code := Canonicalize(t.Abbreviation)
		if code == "" {
			return nil, errors.NewValidation("abbreviation", "translation "+t.Name+" has no abbreviation")
		}
		if _, dup := c.byCode[code]; dup {
			return nil, errors.NewValidation("abbreviation", "duplicate translation "+code)
		}
		t.Abbreviation = code
		c.byCode[code] = t
		c.codes = append(c.codes, code)
	}
	sort.Strings(c.codes)

	return c, nil
}

// Get returns the translation for code, in any case or spacing.
func (c *Catalog) Get(code string) (Translation, bool) {
	t, ok := c.byCode[Canonicalize(code)]
	return t, ok
}

// IsValid reports whether code names an available translation that covers
// section.
func (c *Catalog) IsValid(code string, section books.Section) bool {
	t, ok := c.Get(code)
	return ok && t.Available && t.Covers(section)
}

// IsLocal reports whether code is served from a local corpus.
func (c *Catalog) IsLocal(code string) bool {
	t, ok := c.Get(code)
	return ok && t.Local
}

// Title returns the display title for code, or code itself when unknown.
func (c *Catalog) Title(code string) string {
	if t, ok := c.Get(code); ok {
		return t.Title()
	}
	return Canonicalize(code)
}

// Translations returns every translation ordered by code.
func (c *Catalog) Translations() []Translation {
	out := make([]Translation, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, c.byCode[code])
	}
	return out
}

// Len returns the number of translations.
func (c *Catalog) Len() int {
	return len(c.codes)
}

// Builtin returns the translations known without any configuration.
func Builtin() []Translation {
	return []Translation{
		{Name: "English Standard Version", Abbreviation: "ESV", Language: "en", HasOT: true, HasNT: true, Available: true},
		{Name: "New Revised Standard Version", Abbreviation: "NRSV", Language: "en", HasOT: true, HasNT: true, HasDeut: true, Available: true},
		{Name: "New Revised Standard Version, Anglicised", Abbreviation: "NRSVA", Language: "en", HasOT: true, HasNT: true, HasDeut: true, Available: true},
		{Name: "Revised Standard Version", Abbreviation: "RSV", Language: "en", HasOT: true, HasNT: true, HasDeut: true, Available: true},
		{Name: "King James Version", Abbreviation: "KJV", Language: "en", HasOT: true, HasNT: true, Available: true},
		{Name: "New King James Version", Abbreviation: "NKJV", Language: "en", HasOT: true, HasNT: true, Available: true},
		{Name: "New International Version", Abbreviation: "NIV", Language: "en", HasOT: true, HasNT: true, Available: true},
		{Name: "New American Standard Bible", Abbreviation: "NASB", Language: "en", HasOT: true, HasNT: true, Available: true},
		{Name: "New American Bible (Revised Edition)", Abbreviation: "NABRE", Language: "en", HasOT: true, HasNT: true, HasDeut: true, Available: true},
		{Name: "Douay-Rheims 1899 American Edition", Abbreviation: "DRA", Language: "en", HasOT: true, HasNT: true, HasDeut: true, Available: true},
		{Name: "Common English Bible", Abbreviation: "CEB", Language: "en", HasOT: true, HasNT: true, HasDeut: true, Available: true},
		{Name: "Reina-Valera 1960", Abbreviation: "RVR1960", Language: "es", HasOT: true, HasNT: true, Available: true},
		{Name: "Luther Bibel 1545", Abbreviation: "LUTH1545", Language: "de", HasOT: true, HasNT: true, Available: true},
		{Name: "JPS Tanakh", Abbreviation: "JPS", Language: "en", HasOT: true, Available: true, Local: true},
	}
}

// DefaultCatalog builds a catalog from Builtin.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(Builtin())
	if err != nil {
		panic(err)
	}
	return c
}
