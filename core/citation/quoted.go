package citation

import (
	"regexp"
	"strings"
)

// Quoted is a citation recovered from a reply that was already posted.
type Quoted struct {
	Book        string `json:"book"`
	Translation string `json:"translation"`
}

var (
	// fullHeaderPattern matches "[**Genesis 1:1 | English Standard Version (ESV)**](...)".
	fullHeaderPattern = regexp.MustCompile(
		`\[\*\*([1-4]?\s?[A-Za-z][A-Za-z0-9 .]*?)\s+\d+(?::\d+-?\d*)?\s+\|\s+([^*\]]+?)\s*\*\*\]`)

	// overflowLinePattern matches "- [Genesis 1:1 (ESV)](...)".
	overflowLinePattern = regexp.MustCompile(
		`(?m)^- \[([1-4]?\s?[A-Za-z][A-Za-z0-9 .]*?)\s+\d+(?::\d+-?\d*)?\s+\(([A-Za-z0-9]+)\)\]`)

	// titleCodePattern pulls "ESV" out of "English Standard Version (ESV)".
	titleCodePattern = regexp.MustCompile(`\(([A-Za-z0-9]+)\)\s*$`)
)

// ScanQuoted recovers the book and translation of every passage quoted in a
// reply, in either the full-text or the overflow format. It is used to undo
// usage statistics when a reply is edited or deleted.
func ScanQuoted(reply string) []Quoted {
	quoted := []Quoted{}

	for _, m := range fullHeaderPattern.FindAllStringSubmatch(reply, -1) {
		quoted = append(quoted, Quoted{
			Book:        strings.TrimSpace(m[1]),
			Translation: titleCode(m[2]),
		})
	}
	for _, m := range overflowLinePattern.FindAllStringSubmatch(reply, -1) {
		quoted = append(quoted, Quoted{
			Book:        strings.TrimSpace(m[1]),
			Translation: strings.ToUpper(m[2]),
		})
	}

	return quoted
}

// titleCode returns the parenthesized code at the end of a translation title,
// or the trimmed title itself when there is none.
func titleCode(title string) string {
	title = strings.TrimSpace(title)
	if m := titleCodePattern.FindStringSubmatch(title); m != nil {
		return strings.ToUpper(m[1])
	}
	return title
}
