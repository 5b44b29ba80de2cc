// Package citation recognizes bracketed Bible citations in free-form text.
//
// A citation is written as
//
//	[<book> <chapter>[:<verses>] [(<translation>)]]
//
// for example "[genesis 5:3-5 (nrsv)]", "[1 Jn 4]" or "[ps 23:1- (kjv)]".
// Scanning only recognizes the shape of a citation; whether the book exists
// is decided later by the book catalog, and an unrecognized book is simply
// dropped by the caller.
//
// The package also parses the bracket dialects used by administrative
// requests (default-translation payloads and channel targets) and recovers
// the citations quoted in a previously posted reply.
package citation

import (
	"strconv"
	"strings"
)

// Citation is a recognized but not yet resolved verse reference.
type Citation struct {
	// Book is the book alias exactly as typed, with surrounding spaces removed.
	Book string `json:"book"`

	// Chapter is the chapter number (always >= 1).
	Chapter int `json:"chapter"`

	// VerseStart is the first verse, or 0 for a whole-chapter citation.
	VerseStart int `json:"verse_start,omitempty"`

	// VerseEnd is the last verse. It equals VerseStart for a single verse and
	// is 0 for whole-chapter and open-ended citations.
	VerseEnd int `json:"verse_end,omitempty"`

	// OpenEnded marks "N-": from VerseStart to the end of the chapter.
	OpenEnded bool `json:"open_ended,omitempty"`

	// Translation is the translation alias with spaces removed, or "" when
	// the citation does not name one.
	Translation string `json:"translation,omitempty"`
}

// Verses returns the verse portion of the citation.
func (c Citation) Verses() VerseSpec {
	return VerseSpec{Start: c.VerseStart, End: c.VerseEnd, OpenEnded: c.OpenEnded}
}

// WholeChapter reports whether the citation names no verses.
func (c Citation) WholeChapter() bool {
	return c.VerseStart == 0
}

// String renders the citation back into bracket syntax.
func (c Citation) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(c.Book)
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(c.Chapter))
	if v := c.Verses().String(); v != "" {
		sb.WriteString(":")
		sb.WriteString(v)
	}
	if c.Translation != "" {
		sb.WriteString(" (")
		sb.WriteString(c.Translation)
		sb.WriteString(")")
	}
	sb.WriteString("]")
	return sb.String()
}
