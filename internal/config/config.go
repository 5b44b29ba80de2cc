// Package config loads the bot's YAML configuration and applies
// environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/versebot/core/books"
	"github.com/FocuswithJustin/versebot/core/errors"
	"github.com/FocuswithJustin/versebot/core/response"
	"github.com/FocuswithJustin/versebot/core/translation"
	"github.com/FocuswithJustin/versebot/internal/validation"
)

// Config is the complete bot configuration.
type Config struct {
	Reply        ReplyConfig               `yaml:"reply"`
	Defaults     translation.Defaults      `yaml:"defaults"`
	Translations []translation.Translation `yaml:"translations,omitempty"`
	CorpusDir    string                    `yaml:"corpus_dir,omitempty"`
	Sources      []SourceConfig            `yaml:"sources,omitempty"`
	Preferences  PreferencesConfig         `yaml:"preferences"`
	Cache        CacheConfig               `yaml:"cache"`
	Fetch        FetchConfig               `yaml:"fetch"`
	Logging      LoggingConfig             `yaml:"logging"`
}

// ReplyConfig controls reply assembly.
type ReplyConfig struct {
	MaxLength int    `yaml:"max_length"`
	SearchURL string `yaml:"search_url"`
}

// SourceConfig describes a translation served from a local OSIS corpus.
type SourceConfig struct {
	Translation string `yaml:"translation"`
	Name        string `yaml:"name"`
	Language    string `yaml:"language,omitempty"`
	Path        string `yaml:"path"`

	// Permalink is a template for reply header links. "{osis}", "{book}",
	// "{chapter}" and "{verses}" are substituted.
	Permalink string `yaml:"permalink,omitempty"`
}

// PreferencesConfig seeds per-user and per-channel default translations.
type PreferencesConfig struct {
	Users    map[string]translation.Defaults `yaml:"users,omitempty"`
	Channels map[string]translation.Defaults `yaml:"channels,omitempty"`

	// Moderators lists, per channel, who may change that channel's defaults.
	Moderators map[string][]string `yaml:"moderators,omitempty"`

	// MaxAge is how long unused user defaults are kept.
	MaxAge string `yaml:"max_age"`
}

// CacheConfig sizes the passage cache.
type CacheConfig struct {
	Entries  int    `yaml:"entries"`
	MaxBytes int64  `yaml:"max_bytes"`
	TTL      string `yaml:"ttl"`
}

// FetchConfig controls passage fetching.
type FetchConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Timeout     string `yaml:"timeout"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Reply: ReplyConfig{
			MaxLength: response.DefaultMaxLength,
			SearchURL: response.DefaultSearchURL,
		},
		Defaults: translation.StandardDefaults(),
		Preferences: PreferencesConfig{
			MaxAge: "2160h",
		},
		Cache: CacheConfig{
			Entries:  512,
			MaxBytes: 32 << 20,
			TTL:      "1h",
		},
		Fetch: FetchConfig{
			Concurrency: 4,
			Timeout:     "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path, applies environment overrides and validates the result.
// A missing file, or an empty path, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.NewParse("yaml", path, err.Error())
			}
			if cfg.CorpusDir == "" {
				cfg.CorpusDir = filepath.Dir(path)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.NewIO("read", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIO("mkdir", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// applyEnvOverrides applies VERSEBOT_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VERSEBOT_MAX_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Reply.MaxLength = n
		}
	}
	if v := os.Getenv("VERSEBOT_SEARCH_URL"); v != "" {
		c.Reply.SearchURL = v
	}
	if v := os.Getenv("VERSEBOT_DEFAULT_OT"); v != "" {
		c.Defaults.OT = v
	}
	if v := os.Getenv("VERSEBOT_DEFAULT_NT"); v != "" {
		c.Defaults.NT = v
	}
	if v := os.Getenv("VERSEBOT_DEFAULT_DEUT"); v != "" {
		c.Defaults.Deut = v
	}
	if v := os.Getenv("VERSEBOT_CORPUS_DIR"); v != "" {
		c.CorpusDir = v
	}
	if v := os.Getenv("VERSEBOT_FETCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fetch.Concurrency = n
		}
	}
	if v := os.Getenv("VERSEBOT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VERSEBOT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

var (
	validLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validFormats = []string{"json", "text"}
)

// Validate checks every field and returns the first problem as a
// ValidationError.
func (c *Config) Validate() error {
	if c.Reply.MaxLength <= 0 {
		return errors.NewValidation("reply.max_length", "must be positive")
	}
	u, err := url.Parse(c.Reply.SearchURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewValidation("reply.search_url", fmt.Sprintf("%q is not an http(s) URL", c.Reply.SearchURL))
	}

	for _, d := range []struct{ field, value string }{
		{"preferences.max_age", c.Preferences.MaxAge},
		{"cache.ttl", c.Cache.TTL},
		{"fetch.timeout", c.Fetch.Timeout},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return errors.NewValidation(d.field, fmt.Sprintf("%q is not a duration", d.value))
		}
	}

	if c.Cache.Entries < 0 || c.Cache.MaxBytes < 0 {
		return errors.NewValidation("cache", "sizes must not be negative")
	}
	if c.Fetch.Concurrency < 1 {
		return errors.NewValidation("fetch.concurrency", "must be at least 1")
	}
	if !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		return errors.NewValidation("logging.level", fmt.Sprintf("%q (valid: %v)", c.Logging.Level, validLevels))
	}
	if !contains(validFormats, strings.ToLower(c.Logging.Format)) {
		return errors.NewValidation("logging.format", fmt.Sprintf("%q (valid: %v)", c.Logging.Format, validFormats))
	}

	for i, s := range c.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if translation.Canonicalize(s.Translation) == "" {
			return errors.NewValidation(field+".translation", "must not be empty")
		}
		if _, err := validation.ResolvePath(c.CorpusDir, s.Path); err != nil {
			return &errors.ValidationError{Field: field + ".path", Message: err.Error(), Err: err}
		}
	}

	catalog, err := c.TranslationCatalog()
	if err != nil {
		return err
	}
	defaults := c.Defaults.Normalize()
	for _, s := range books.Sections() {
		code := defaults.For(s)
		if code == "" {
			continue
		}
		if !catalog.IsValid(code, s) {
			return errors.NewValidation("defaults."+s.Key(), errors.NewUnavailable(code, s.String()).Error())
		}
	}

	return nil
}

// TranslationCatalog builds the translation catalog: the built-in list,
// overridden or extended by Translations, with every configured source
// marked local.
func (c *Config) TranslationCatalog() (*translation.Catalog, error) {
	byCode := make(map[string]translation.Translation)
	var order []string
	add := func(t translation.Translation) {
		code := translation.Canonicalize(t.Abbreviation)
		if _, seen := byCode[code]; !seen {
			order = append(order, code)
		}
		byCode[code] = t
	}

	for _, t := range translation.Builtin() {
		add(t)
	}
	for _, t := range c.Translations {
		add(t)
	}
	for _, s := range c.Sources {
		code := translation.Canonicalize(s.Translation)
		t, ok := byCode[code]
		if !ok {
			t = translation.Translation{Abbreviation: code, HasOT: true, Available: true}
		}
		if s.Name != "" {
			t.Name = s.Name
		}
		if s.Language != "" {
			t.Language = s.Language
		}
		t.Local = true
		add(t)
	}

	list := make([]translation.Translation, 0, len(order))
	for _, code := range order {
		list = append(list, byCode[code])
	}
	return translation.NewCatalog(list)
}

// SourcePath resolves a source's corpus path against CorpusDir.
func (c *Config) SourcePath(s SourceConfig) (string, error) {
	return validation.ResolvePath(c.CorpusDir, s.Path)
}

// PreferenceMaxAge returns Preferences.MaxAge as a duration.
func (c *Config) PreferenceMaxAge() time.Duration {
	return parseDuration(c.Preferences.MaxAge, 90*24*time.Hour)
}

// CacheTTL returns Cache.TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, time.Hour)
}

// FetchTimeout returns Fetch.Timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return parseDuration(c.Fetch.Timeout, 10*time.Second)
}

// IsModerator reports whether user may change channel's defaults.
func (c *Config) IsModerator(channel, user string) bool {
	for ch, mods := range c.Preferences.Moderators {
		if !strings.EqualFold(ch, channel) {
			continue
		}
		for _, m := range mods {
			if strings.EqualFold(m, user) {
				return true
			}
		}
	}
	return false
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
