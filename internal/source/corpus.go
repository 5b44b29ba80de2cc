// Package source serves passages for translations kept on local disk as
// OSIS XML corpora, optionally xz-compressed.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/versebot/core/errors"
	"github.com/FocuswithJustin/versebot/internal/validation"
)

// Compiled XPath expressions used on every corpus. Elements are matched by
// local name so the OSIS default namespace is optional.
var (
	containerVerses = xpath.MustCompile(`//*[local-name()='verse'][@osisID and not(@sID) and not(@eID)]`)
	milestoneVerses = xpath.MustCompile(`//*[local-name()='verse'][@sID]`)
	workTitle       = xpath.MustCompile(`//*[local-name()='header']/*[local-name()='work']/*[local-name()='title']`)
)

type chapterKey struct {
	book    string
	chapter int
}

type verseText struct {
	number int
	text   string
}

// Corpus is the parsed text of one translation, indexed by OSIS book ID
// and chapter.
type Corpus struct {
	Translation string
	Title       string

	chapters map[chapterKey][]verseText
	books    map[string]struct{}
	verses   int
}

// Load reads a corpus file. Files ending in ".xz" are decompressed; the
// content must agree with the extension.
func Load(path, translation string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	if info.Size() > validation.MaxCorpusSize {
		return nil, errors.NewValidation("path", fmt.Sprintf("%s is larger than %d bytes", path, validation.MaxCorpusSize))
	}

	br := bufio.NewReader(f)
	head, _ := br.Peek(512)
	kind, err := validation.DetectCorpusType(strings.NewReader(string(head)), path)
	if err != nil {
		return nil, &errors.ValidationError{Field: "path", Message: err.Error(), Err: err}
	}

	var r io.Reader = br
	if kind == validation.CorpusXZ {
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		r = io.LimitReader(xr, validation.MaxCorpusSize)
	}

	c, err := Parse(r, translation)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return c, nil
}

// Parse reads OSIS XML. Both container verses (<verse osisID="Gen.1.1">text</verse>)
// and milestone verses (<verse sID="..." osisID="..."/>text<verse eID="..."/>)
// are understood. Verses whose osisID is not "Book.Chapter.Verse" are skipped.
func Parse(r io.Reader, translation string) (*Corpus, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewParse("osis", translation, err.Error())
	}

	c := &Corpus{
		Translation: translation,
		Title:       translation,
		chapters:    make(map[chapterKey][]verseText),
		books:       make(map[string]struct{}),
	}

	if n := xmlquery.QuerySelector(doc, workTitle); n != nil {
		if title := strings.TrimSpace(n.InnerText()); title != "" {
			c.Title = title
		}
	}

	for _, n := range xmlquery.QuerySelectorAll(doc, containerVerses) {
		c.add(n.SelectAttr("osisID"), containerText(n))
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, milestoneVerses) {
		id := n.SelectAttr("osisID")
		if id == "" {
			id = n.SelectAttr("sID")
		}
		c.add(id, milestoneText(n))
	}

	if c.verses == 0 {
		return nil, errors.NewParse("osis", translation, "no verses found")
	}

	for key, vs := range c.chapters {
		sort.Slice(vs, func(i, j int) bool { return vs[i].number < vs[j].number })
		c.chapters[key] = vs
	}
	return c, nil
}

// milestoneText collects the text between a start milestone and the next
// verse element, walking up through enclosing elements as needed. Notes are
// skipped.
func milestoneText(start *xmlquery.Node) string {
	var sb strings.Builder
	for n := next(start); n != nil; n = next(n) {
		if isElement(n, "verse") {
			break
		}
		if n.Type == xmlquery.TextNode || n.Type == xmlquery.CharDataNode {
			sb.WriteString(n.Data)
		}
	}
	return sb.String()
}

// next returns the node after n in document order, without entering verse
// or note elements.
func next(n *xmlquery.Node) *xmlquery.Node {
	if n.FirstChild != nil && !isElement(n, "verse") && !isElement(n, "note") {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// containerText returns the text inside a container verse, without notes.
func containerText(n *xmlquery.Node) string {
	var sb strings.Builder
	var walk func(*xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode:
				sb.WriteString(c.Data)
			case isElement(c, "note"):
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

func isElement(n *xmlquery.Node, name string) bool {
	return n.Type == xmlquery.ElementNode && n.Data == name
}

// add records one verse. An osisID may list several references separated
// by spaces; only the first is used.
func (c *Corpus) add(osisID, text string) {
	fields := strings.Fields(osisID)
	if len(fields) == 0 {
		return
	}
	parts := strings.Split(fields[0], ".")
	if len(parts) != 3 {
		return
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil || chapter < 1 {
		return
	}
	number, err := strconv.Atoi(parts[2])
	if err != nil || number < 1 {
		return
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return
	}

	book := strings.ToLower(parts[0])
	key := chapterKey{book: book, chapter: chapter}
	c.chapters[key] = append(c.chapters[key], verseText{number: number, text: text})
	c.books[book] = struct{}{}
	c.verses++
}

// Passage renders verses start..end of a chapter as "[**n**] text" runs.
// start 0 selects the whole chapter; open selects from start to the end of
// the chapter. It returns false when nothing in the range exists.
func (c *Corpus) Passage(osis string, chapter, start, end int, open bool) (string, bool) {
	vs := c.chapters[chapterKey{book: strings.ToLower(osis), chapter: chapter}]

	var parts []string
	for _, v := range vs {
		if start > 0 && v.number < start {
			continue
		}
		if start > 0 && !open && v.number > end {
			break
		}
		parts = append(parts, "[**"+strconv.Itoa(v.number)+"**] "+v.text)
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

// Books returns the number of distinct books in the corpus.
func (c *Corpus) Books() int {
	return len(c.books)
}

// Verses returns the number of verses in the corpus.
func (c *Corpus) Verses() int {
	return c.verses
}
