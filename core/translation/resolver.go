// Package translation decides which Bible translation a citation is quoted in.
//
// An explicit alias always wins. Otherwise an ordered list of preference
// lookups (typically the author's own defaults, then the channel's) is
// consulted, and finally the per-section default.
package translation

import (
	"strings"

	"github.com/FocuswithJustin/versebot/core/books"
)

// Defaults holds one translation code per Bible section.
type Defaults struct {
	OT   string `json:"ot" yaml:"ot"`
	NT   string `json:"nt" yaml:"nt"`
	Deut string `json:"deut" yaml:"deut"`
}

// StandardDefaults returns ESV for both testaments and NRSV for the
// deuterocanon.
func StandardDefaults() Defaults {
	return Defaults{OT: "ESV", NT: "ESV", Deut: "NRSV"}
}

// For returns the code configured for section, or "" when none is.
func (d Defaults) For(section books.Section) string {
	switch section {
	case books.OldTestament:
		return d.OT
	case books.NewTestament:
		return d.NT
	case books.Deuterocanon:
		return d.Deut
	default:
		return ""
	}
}

// Lookup implements Lookup so a Defaults value can be used as a preference.
func (d Defaults) Lookup(section books.Section) (string, bool) {
	code := Canonicalize(d.For(section))
	return code, code != ""
}

// With returns a copy of d with the code for section replaced.
func (d Defaults) With(section books.Section, code string) Defaults {
	switch section {
	case books.OldTestament:
		d.OT = code
	case books.NewTestament:
		d.NT = code
	case books.Deuterocanon:
		d.Deut = code
	}
	return d
}

// Normalize canonicalizes every code.
func (d Defaults) Normalize() Defaults {
	return Defaults{OT: Canonicalize(d.OT), NT: Canonicalize(d.NT), Deut: Canonicalize(d.Deut)}
}

// Merge fills the empty fields of d from fallback.
func (d Defaults) Merge(fallback Defaults) Defaults {
	for _, s := range books.Sections() {
		if d.For(s) == "" {
			d = d.With(s, fallback.For(s))
		}
	}
	return d
}

// IsZero reports whether no section has a code.
func (d Defaults) IsZero() bool {
	return d == Defaults{}
}

// Lookup is a per-section preference, such as one user's saved defaults.
type Lookup interface {
	Lookup(section books.Section) (string, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(section books.Section) (string, bool)

// Lookup calls f.
func (f LookupFunc) Lookup(section books.Section) (string, bool) {
	return f(section)
}

// Provider is a subject-keyed preference source: subjects are user names
// or channel names.
type Provider interface {
	Lookup(subject string, section books.Section) (string, bool)
}

// ForSubject binds a Provider to one subject. A nil provider or an empty
// subject yields a Lookup that never matches.
func ForSubject(p Provider, subject string) Lookup {
	return LookupFunc(func(section books.Section) (string, bool) {
		if p == nil || subject == "" {
			return "", false
		}
		return p.Lookup(subject, section)
	})
}

// Resolver picks the effective translation for a citation.
// The zero value is not usable; construct with NewResolver.
type Resolver struct {
	defaults Defaults
}

// NewResolver creates a resolver whose section defaults are defaults, with
// any empty field taken from StandardDefaults.
func NewResolver(defaults Defaults) *Resolver {
	return &Resolver{defaults: defaults.Normalize().Merge(StandardDefaults())}
}

// Defaults returns the section defaults in effect.
func (r *Resolver) Defaults() Defaults {
	return r.defaults
}

// Resolve returns the canonical translation code for a citation of a book in
// section. A non-empty alias is canonicalized and returned without any
// availability check. Otherwise prefs are consulted in order, and the first
// non-empty answer wins; nil entries are skipped. The section default is the
// last resort; an unknown section falls back to the New Testament default.
func (r *Resolver) Resolve(alias string, section books.Section, prefs ...Lookup) string {
	if code := Canonicalize(alias); code != "" {
		return code
	}

	for _, p := range prefs {
		if p == nil {
			continue
		}
		if code, ok := p.Lookup(section); ok {
			if code = Canonicalize(code); code != "" {
				return code
			}
		}
	}

	if code := r.defaults.For(section); code != "" {
		return code
	}
	return r.defaults.NT
}

// Canonicalize uppercases a translation alias and removes all whitespace.
func Canonicalize(alias string) string {
	return strings.ToUpper(strings.Join(strings.Fields(alias), ""))
}
