package citation

import (
	"regexp"
	"strconv"
	"strings"
)

// citationPattern matches one bracketed citation. Groups:
//
//	1: book alias (letters, digits, spaces, periods; shortest that still matches)
//	2: chapter
//	3: verse spec, optional
//	4: translation alias, optional
var citationPattern = regexp.MustCompile(
	`\[\s*([A-Za-z0-9. ]+?)\s*(\d+)\s*` +
		`(?::\s*(\d+\s*(?:-\s*\d*)?))?\s*` +
		`(?:\(\s*([A-Za-z ]*[A-Za-z])\s*\))?\s*\]`,
)

// Scan finds every bracketed citation in text, left to right.
//
// It never fails: text without citations yields an empty (non-nil) slice.
// Brackets that are not closed, or whose contents do not have the shape of a
// citation, are skipped. A citation whose verse portion cannot be read
// (for example a descending range) is kept as a whole-chapter citation.
func Scan(text string) []Citation {
	citations := []Citation{}

	for _, m := range citationPattern.FindAllStringSubmatch(text, -1) {
		c, ok := fromMatch(m)
		if !ok {
			continue
		}
		citations = append(citations, c)
	}

	return citations
}

// ScanOne returns the first citation in text, if any.
func ScanOne(text string) (Citation, bool) {
	m := citationPattern.FindStringSubmatch(text)
	if m == nil {
		return Citation{}, false
	}
	return fromMatch(m)
}

// fromMatch converts regexp groups into a Citation.
func fromMatch(m []string) (Citation, bool) {
	book := strings.TrimSpace(m[1])
	if book == "" {
		return Citation{}, false
	}

	chapter, err := strconv.Atoi(stripSpaces(m[2]))
	if err != nil || chapter <= 0 {
		return Citation{}, false
	}

	c := Citation{
		Book:        book,
		Chapter:     chapter,
		Translation: stripSpaces(m[4]),
	}

	if m[3] != "" {
		if spec, ok := ParseVerseSpec(stripSpaces(m[3])); ok {
			c.VerseStart = spec.Start
			c.VerseEnd = spec.End
			c.OpenEnded = spec.OpenEnded
		}
	}

	return c, true
}

// stripSpaces removes every whitespace character from s.
func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
