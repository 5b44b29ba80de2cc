package citation

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// VerseSpec is the normalized verse portion of a citation.
//
// The zero value denotes a whole chapter. A single verse has Start == End.
// An open-ended range ("5-") has OpenEnded set and End == 0.
type VerseSpec struct {
	Start     int  `json:"start,omitempty"`
	End       int  `json:"end,omitempty"`
	OpenEnded bool `json:"open_ended,omitempty"`
}

// WholeChapter reports whether the spec names no verses.
func (v VerseSpec) WholeChapter() bool {
	return v.Start == 0
}

// Single reports whether the spec names exactly one verse.
func (v VerseSpec) Single() bool {
	return v.Start > 0 && !v.OpenEnded && v.End == v.Start
}

// String returns "", "3", "3-5" or "5-".
func (v VerseSpec) String() string {
	switch {
	case v.Start == 0:
		return ""
	case v.OpenEnded:
		return strconv.Itoa(v.Start) + "-"
	case v.End == v.Start:
		return strconv.Itoa(v.Start)
	default:
		return strconv.Itoa(v.Start) + "-" + strconv.Itoa(v.End)
	}
}

// verseSpecGrammar is the participle grammar for the verse portion.
// Examples: "3", "3-5", "5-"
//
//nolint:govet // participle grammar tags are not standard struct tags
type verseSpecGrammar struct {
	Start int        `@Int`
	Range *rangePart `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rangePart struct {
	Dash string `@"-"`
	End  *int   `@Int?`
}

var verseSpecLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var verseSpecParser = participle.MustBuild[verseSpecGrammar](
	participle.Lexer(verseSpecLexer),
	participle.Elide("Whitespace"),
)

// ParseVerseSpec parses the text after the chapter colon.
//
// It returns false when the text is not a verse spec, when a range is
// descending ("5-3"), or when a number does not fit in an int. Callers treat
// false as a whole-chapter citation. A range whose ends are equal ("5-5")
// collapses to the single verse, while "5-" stays open-ended.
func ParseVerseSpec(s string) (VerseSpec, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VerseSpec{}, false
	}

	parsed, err := verseSpecParser.ParseString("", s)
	if err != nil {
		return VerseSpec{}, false
	}

	if parsed.Start <= 0 {
		// Verse 0 does not exist; "5:0" reads as the whole of chapter 5.
		return VerseSpec{}, true
	}

	spec := VerseSpec{Start: parsed.Start, End: parsed.Start}
	if parsed.Range == nil {
		return spec, true
	}

	if parsed.Range.End == nil {
		return VerseSpec{Start: parsed.Start, OpenEnded: true}, true
	}

	end := *parsed.Range.End
	if end < parsed.Start {
		return VerseSpec{}, false
	}
	spec.End = end
	return spec, true
}
