package citation

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/versebot/core/translation"
)

// defaultsPattern locates a three-field payload such as "{ESV} {ESV} {NRSV}".
var defaultsPattern = regexp.MustCompile(`\{[^{}]*\}\s*\{[^{}]*\}\s*\{[^{}]*\}`)

// defaultsGrammar is the participle grammar for a default-translation
// payload: Old Testament, New Testament and Deuterocanon codes, in that order.
//
//nolint:govet // participle grammar tags are not standard struct tags
type defaultsGrammar struct {
	OT   string `"{" @Ident+ "}"`
	NT   string `"{" @Ident+ "}"`
	Deut string `"{" @Ident+ "}"`
}

var defaultsLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z0-9]+`},
	{Name: "Brace", Pattern: `[{}]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var defaultsParser = participle.MustBuild[defaultsGrammar](
	participle.Lexer(defaultsLexer),
	participle.Elide("Whitespace"),
)

// ParseDefaults extracts a default-translation payload from a request body.
// Codes are uppercased with spaces removed and may carry digits, as in
// "RVR1960"; every field must be non-empty.
// It returns false when the text holds no well-formed payload.
func ParseDefaults(text string) (translation.Defaults, bool) {
	payload := defaultsPattern.FindString(text)
	if payload == "" {
		return translation.Defaults{}, false
	}

	parsed, err := defaultsParser.ParseString("", payload)
	if err != nil {
		return translation.Defaults{}, false
	}

	return translation.Defaults{
		OT:   strings.ToUpper(parsed.OT),
		NT:   strings.ToUpper(parsed.NT),
		Deut: strings.ToUpper(parsed.Deut),
	}, true
}

// targetPattern matches a bracketed channel target: "[r/name]", "[/r/name]"
// or "[#name]".
var targetPattern = regexp.MustCompile(`\[\s*(?:/?r/|#)([A-Za-z0-9_][A-Za-z0-9_-]*)\s*\]`)

// ParseTarget extracts the channel (or subreddit) an administrative request
// applies to. The name is returned lowercased, without its prefix.
func ParseTarget(text string) (string, bool) {
	m := targetPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}
