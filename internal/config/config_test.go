package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/versebot/core/books"
	vberrors "github.com/FocuswithJustin/versebot/core/errors"
	"github.com/FocuswithJustin/versebot/core/translation"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "versebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Reply.MaxLength)
	assert.Equal(t, translation.StandardDefaults(), cfg.Defaults)
	assert.Equal(t, 90*24*time.Hour, cfg.PreferenceMaxAge())
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
reply:
  max_length: 4000
defaults:
  ot: jps
sources:
  - translation: jps
    name: JPS Tanakh 1917
    path: corpora/jps.xml.xz
    permalink: https://example.org/jps/{osis}/{chapter}
preferences:
  users:
    alice: {ot: kjv, nt: kjv, deut: nrsv}
  moderators:
    Christianity: [Mod1, mod2]
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Reply.MaxLength)
	assert.Equal(t, "https://www.biblegateway.com/passage/", cfg.Reply.SearchURL)
	assert.Equal(t, translation.Defaults{OT: "jps", NT: "ESV", Deut: "NRSV"}, cfg.Defaults)
	assert.Equal(t, filepath.Dir(path), cfg.CorpusDir)
	assert.Equal(t, "debug", cfg.Logging.Level)

	src, err := cfg.SourcePath(cfg.Sources[0])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "corpora", "jps.xml.xz"), src)

	assert.True(t, cfg.IsModerator("christianity", "MOD1"))
	assert.False(t, cfg.IsModerator("christianity", "alice"))
	assert.False(t, cfg.IsModerator("other", "mod1"))

	catalog, err := cfg.TranslationCatalog()
	require.NoError(t, err)
	jps, ok := catalog.Get("JPS")
	require.True(t, ok)
	assert.Equal(t, "JPS Tanakh 1917", jps.Name)
	assert.True(t, jps.Local)
	assert.False(t, jps.HasNT)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "reply: [unterminated"))
	var pe *vberrors.ParseError
	assert.True(t, vberrors.As(err, &pe), "want ParseError, got %v", err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VERSEBOT_MAX_LENGTH", "1234")
	t.Setenv("VERSEBOT_SEARCH_URL", "https://search.example.org/")
	t.Setenv("VERSEBOT_DEFAULT_NT", "kjv")
	t.Setenv("VERSEBOT_FETCH_CONCURRENCY", "9")
	t.Setenv("VERSEBOT_LOG_FORMAT", "text")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Reply.MaxLength)
	assert.Equal(t, "https://search.example.org/", cfg.Reply.SearchURL)
	assert.Equal(t, "kjv", cfg.Defaults.NT)
	assert.Equal(t, 9, cfg.Fetch.Concurrency)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestEnvOverrideIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("VERSEBOT_MAX_LENGTH", "lots")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, 6000, cfg.Reply.MaxLength)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"max length", func(c *Config) { c.Reply.MaxLength = 0 }, "reply.max_length"},
		{"search url", func(c *Config) { c.Reply.SearchURL = "ftp://x" }, "reply.search_url"},
		{"duration", func(c *Config) { c.Cache.TTL = "soon" }, "cache.ttl"},
		{"cache size", func(c *Config) { c.Cache.Entries = -1 }, "cache"},
		{"concurrency", func(c *Config) { c.Fetch.Concurrency = 0 }, "fetch.concurrency"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"source translation", func(c *Config) {
			c.Sources = []SourceConfig{{Path: "x.xml"}}
		}, "sources[0].translation"},
		{"source path", func(c *Config) {
			c.CorpusDir = t.TempDir()
			c.Sources = []SourceConfig{{Translation: "JPS", Path: "../x.xml"}}
		}, "sources[0].path"},
		{"default not covering section", func(c *Config) { c.Defaults.Deut = "ESV" }, "defaults.deut"},
		{"unknown default", func(c *Config) { c.Defaults.NT = "NOPE" }, "defaults.nt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ve *vberrors.ValidationError
			require.True(t, vberrors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestTranslationCatalogOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Translations = []translation.Translation{
		{Name: "English Standard Version", Abbreviation: "esv", HasOT: true, HasNT: true, Available: false},
		{Name: "World English Bible", Abbreviation: "WEB", HasOT: true, HasNT: true, HasDeut: true, Available: true},
	}

	catalog, err := cfg.TranslationCatalog()
	require.NoError(t, err)
	assert.False(t, catalog.IsValid("ESV", books.NewTestament))
	assert.True(t, catalog.IsValid("web", books.Deuterocanon))
	assert.Equal(t, len(translation.Builtin())+1, catalog.Len())
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.OT = "JPS"
	path := filepath.Join(t.TempDir(), "nested", "versebot.yaml")

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "JPS", loaded.Defaults.OT)
	assert.Equal(t, cfg.Reply, loaded.Reply)
}
