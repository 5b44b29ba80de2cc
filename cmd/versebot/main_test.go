package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/versebot/core/citation"
	"github.com/FocuswithJustin/versebot/internal/config"
	"github.com/FocuswithJustin/versebot/internal/stats"
)

const testCorpus = `<?xml version="1.0" encoding="UTF-8"?>
<osis>
  <osisText osisIDWork="JPS">
    <div type="book" osisID="Gen">
      <chapter osisID="Gen.1">
        <verse osisID="Gen.1.1">In the beginning God created the heaven and the earth.</verse>
        <verse osisID="Gen.1.2">Now the earth was unformed and void.</verse>
      </chapter>
    </div>
  </osisText>
</osis>`

const testConfig = `
defaults:
  ot: jps
sources:
  - translation: jps
    name: JPS Tanakh 1917
    path: jps.xml
    permalink: https://example.org/jps/{osis}/{chapter}
preferences:
  moderators:
    judaism: [rabbi]
`

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// newTestApp writes a configuration with one local corpus and returns an
// app whose output is captured.
func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	createTestFile(t, dir, "jps.xml", testCorpus)
	cfgPath := createTestFile(t, dir, "versebot.yaml", testConfig)

	var out bytes.Buffer
	return &app{cli: &CLI{Config: cfgPath, LogFormat: "text"}, out: &out}, &out
}

func TestScanCmd_Run(t *testing.T) {
	a, out := newTestApp(t)

	cmd := &ScanCmd{Text: []string{"see", "[John 3:16]", "and", "[Gen 1:1-3 (kjv)]"}}
	if err := cmd.Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []citation.Citation
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(got) != 2 || got[0].Book != "John" || got[1].Translation != "kjv" || got[1].VerseEnd != 3 {
		t.Errorf("citations = %+v", got)
	}
}

func TestBookCmd_Run(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "abbreviation", args: []string{"1jn"}, want: "1 John (1John) #62, New Testament\n"},
		{name: "two words", args: []string{"Bel", "and", "the", "Dragon"}, want: "Bel and the Dragon (Bel) #82, Deuterocanon\n"},
		{name: "unknown", args: []string{"Hezekiah"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out := newTestApp(t)
			err := (&BookCmd{Name: tt.args}).Run(a)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestReplyCmd_Run(t *testing.T) {
	a, out := newTestApp(t)

	if err := (&ReplyCmd{Text: []string{"[Gen 1:1]"}}).Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "[**Genesis 1:1 | JPS Tanakh 1917 (JPS)**](https://example.org/jps/Gen/1)\n\n" +
		">[**1**] In the beginning God created the heaven and the earth.\n\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestReplyCmd_NoReply(t *testing.T) {
	a, out := newTestApp(t)

	if err := (&ReplyCmd{Text: []string{"[John 3:16]"}}).Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "(no reply: no_reply)\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestReplyCmd_OverflowLinksLocalCorpus(t *testing.T) {
	a, out := newTestApp(t)
	createTestFile(t, filepath.Dir(a.cli.Config), "versebot.yaml", testConfig+"reply:\n  max_length: 20\n")

	// Genesis 1:3 is not in the corpus but still links to its chapter.
	if err := (&ReplyCmd{Text: []string{"[Gen 1:1] [Gen 1:3]"}}).Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "The contents of the verse(s) you quoted exceed the 20 character limit. " +
		"Instead, here are links to the verse(s)!\n\n" +
		"- [Genesis 1:1 (JPS)](https://example.org/jps/Gen/1)\n\n" +
		"- [Genesis 1:3 (JPS)](https://example.org/jps/Gen/1)\n\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestDefaultsCmd_Run(t *testing.T) {
	a, out := newTestApp(t)

	cmd := &DefaultsCmd{User: "rabbi", Text: []string{"[#judaism]", "{jps}", "{kjv}", "{nrsv}"}}
	if err := cmd.Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "channel judaism: {JPS} {KJV} {NRSV}\n" {
		t.Errorf("output = %q", out.String())
	}

	saved, err := config.Load(a.cli.Config)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if got := saved.Preferences.Channels["judaism"].NT; got != "KJV" {
		t.Errorf("saved channel NT default = %q, want KJV", got)
	}
}

func TestDefaultsCmd_Rejected(t *testing.T) {
	tests := []struct {
		name string
		user string
		text []string
	}{
		{"not a moderator", "alice", []string{"[#judaism] {jps} {kjv} {nrsv}"}},
		{"unavailable", "alice", []string{"{esv} {jps} {nrsv}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t)
			if err := (&DefaultsCmd{User: tt.user, Text: tt.text}).Run(a); err == nil {
				t.Error("Run() succeeded, want error")
			}
		})
	}
}

func TestStatsCmd_Run(t *testing.T) {
	a, out := newTestApp(t)
	messages := createTestFile(t, t.TempDir(), "messages.txt", strings.Join([]string{
		"judaism\t[Gen 1:1] [Gen 1:2]",
		"[Genesis 1]",
		"no citations",
		"judaism\t[John 3:16]",
	}, "\n"))

	if err := (&StatsCmd{Path: messages}).Run(a); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got stats.Snapshot
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if got.Replies != 2 {
		t.Errorf("Replies = %d, want 2", got.Replies)
	}
	if len(got.Books) != 1 || got.Books[0] != (stats.Count{Name: "Genesis", Count: 3}) {
		t.Errorf("Books = %+v", got.Books)
	}
	if len(got.Channels) != 1 || got.Channels[0] != (stats.Count{Name: "judaism", Count: 2}) {
		t.Errorf("Channels = %+v", got.Channels)
	}
}

func TestVersionCmd_Run(t *testing.T) {
	a, out := newTestApp(t)
	if err := (&VersionCmd{}).Run(a); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("output = %q", out.String())
	}
}
