// Command versebot is the CLI for VerseBot.
// It scans text for bracketed Bible citations and prints the reply the bot
// would post, and manages default translations and usage statistics.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/versebot/core/books"
	"github.com/FocuswithJustin/versebot/core/citation"
	"github.com/FocuswithJustin/versebot/core/response"
	"github.com/FocuswithJustin/versebot/core/translation"
	"github.com/FocuswithJustin/versebot/core/verse"
	"github.com/FocuswithJustin/versebot/internal/bot"
	"github.com/FocuswithJustin/versebot/internal/config"
	"github.com/FocuswithJustin/versebot/internal/fetch"
	"github.com/FocuswithJustin/versebot/internal/logging"
	"github.com/FocuswithJustin/versebot/internal/source"
	"github.com/FocuswithJustin/versebot/internal/stats"
)

const version = "0.1.0"

// CLI defines the command-line interface for versebot.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"Configuration file" default:"versebot.yaml" type:"path"`
	EnvFile   string `name:"env-file" help:"Environment file loaded before configuration" default:".env" type:"path"`
	LogLevel  string `name:"log-level" help:"Override the configured log level"`
	LogFormat string `name:"log-format" help:"Override the configured log format (json, text)"`

	Scan     ScanCmd     `cmd:"" help:"List the citations found in text"`
	Book     BookCmd     `cmd:"" help:"Look up a book by name or abbreviation"`
	Reply    ReplyCmd    `cmd:"" help:"Print the reply for a message"`
	Defaults DefaultsCmd `cmd:"" help:"Change a user's or channel's default translations"`
	Stats    StatsCmd    `cmd:"" help:"Tally citations in a file of messages"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// app is what every command runs against.
type app struct {
	cli *CLI
	out io.Writer

	cfg *config.Config
}

// loadConfig loads the configuration once, after the environment file.
func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	if a.cli.EnvFile != "" {
		if err := godotenv.Load(a.cli.EnvFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", a.cli.EnvFile, err)
		}
	}

	cfg, err := config.Load(a.cli.Config)
	if err != nil {
		return nil, err
	}
	if a.cli.LogLevel != "" {
		cfg.Logging.Level = a.cli.LogLevel
	}
	if a.cli.LogFormat != "" {
		cfg.Logging.Format = a.cli.LogFormat
	}
	logging.InitLoggerTo(os.Stderr, logging.ParseLevel(cfg.Logging.Level), logging.ParseFormat(cfg.Logging.Format))
	logging.ConfigLoaded(a.cli.Config)

	a.cfg = cfg
	return cfg, nil
}

// processor wires a bot.Processor from the configuration: translation
// catalog, local corpora behind a passage cache, and the stored defaults.
func (a *app) processor(rec *stats.Recorder) (*bot.Processor, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	catalog, err := cfg.TranslationCatalog()
	if err != nil {
		return nil, err
	}

	local := source.NewLocal()
	for _, s := range cfg.Sources {
		path, err := cfg.SourcePath(s)
		if err != nil {
			return nil, err
		}
		corpus, err := source.Load(path, s.Translation)
		if err != nil {
			return nil, err
		}
		if s.Name != "" {
			corpus.Title = s.Name
		}
		local.Add(corpus, s.Permalink)
		logging.CorpusLoaded(s.Translation, path, corpus.Books(), corpus.Verses())
	}

	fetcher := fetch.NewCached(source.Chain{local}, fetch.Options{
		Entries:  cfg.Cache.Entries,
		MaxBytes: cfg.Cache.MaxBytes,
		TTL:      cfg.CacheTTL(),
		Timeout:  cfg.FetchTimeout(),
	})

	users := translation.NewMapStore()
	for name, d := range cfg.Preferences.Users {
		users.Set(name, d)
	}
	channels := translation.NewMapStore()
	for name, d := range cfg.Preferences.Channels {
		channels.Set(name, d)
	}

	p := bot.New(bot.Options{
		Verses:  verse.NewResolver(books.Default(), translation.NewResolver(cfg.Defaults)),
		Fetcher: fetcher,
		Reply: response.Config{
			MaxLength: cfg.Reply.MaxLength,
			SearchURL: cfg.Reply.SearchURL,
			Local:     catalog,
			Links:     local,
		},
		Catalog:   catalog,
		Users:     users,
		Channels:  channels,
		Moderator: cfg,
		Stats:     rec,
		Prefetch:  cfg.Fetch.Concurrency,
	})
	p.PruneUsers(cfg.PreferenceMaxAge())
	return p, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ScanCmd lists citations.
type ScanCmd struct {
	Text []string `arg:"" help:"Message text"`
}

func (c *ScanCmd) Run(a *app) error {
	return a.printJSON(citation.Scan(strings.Join(c.Text, " ")))
}

// BookCmd looks up a book.
type BookCmd struct {
	Name []string `arg:"" help:"Book name or abbreviation"`
}

func (c *BookCmd) Run(a *app) error {
	name := strings.Join(c.Name, " ")
	b, ok := books.Default().Lookup(name)
	if !ok {
		return fmt.Errorf("unknown book %q", name)
	}
	fmt.Fprintf(a.out, "%s (%s) #%d, %s\n", b.Name, b.OSIS, b.Ordinal, b.Section())
	return nil
}

// ReplyCmd prints the reply for one message.
type ReplyCmd struct {
	User    string   `help:"Author of the message"`
	Channel string   `help:"Channel the message was posted in"`
	Text    []string `arg:"" help:"Message text"`
}

func (c *ReplyCmd) Run(a *app) error {
	p, err := a.processor(nil)
	if err != nil {
		return err
	}

	res := p.Process(context.Background(), bot.Message{
		Author:  c.User,
		Channel: c.Channel,
		Body:    strings.Join(c.Text, " "),
	})
	if !res.Posted() {
		fmt.Fprintf(a.out, "(no reply: %s)\n", res.Outcome)
		return nil
	}
	fmt.Fprint(a.out, res.Reply)
	return nil
}

// DefaultsCmd applies a default-translation request and saves it to the
// configuration file.
type DefaultsCmd struct {
	User string   `required:"" help:"Author of the request"`
	Text []string `arg:"" help:"Request body, e.g. '{ESV} {ESV} {NRSV}' or '[r/channel] {ESV} {ESV} {NRSV}'"`
}

func (c *DefaultsCmd) Run(a *app) error {
	p, err := a.processor(nil)
	if err != nil {
		return err
	}

	update, err := p.UpdateDefaults(context.Background(), c.User, strings.Join(c.Text, " "))
	if err != nil {
		return err
	}

	cfg := a.cfg
	prefs := &cfg.Preferences.Users
	if update.Kind == bot.KindChannel {
		prefs = &cfg.Preferences.Channels
	}
	if *prefs == nil {
		*prefs = make(map[string]translation.Defaults)
	}
	(*prefs)[update.Subject] = update.Defaults
	if err := cfg.Save(a.cli.Config); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s: {%s} {%s} {%s}\n", update.Kind, update.Subject,
		update.Defaults.OT, update.Defaults.NT, update.Defaults.Deut)
	return nil
}

// StatsCmd processes a file of messages, one per line, and prints the
// resulting tallies as YAML. A line may start with "channel<TAB>".
type StatsCmd struct {
	Path string `arg:"" help:"File of messages" type:"existingfile"`
}

func (c *StatsCmd) Run(a *app) error {
	rec := stats.NewRecorder(nil)
	p, err := a.processor(rec)
	if err != nil {
		return err
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		channel, body, ok := strings.Cut(sc.Text(), "\t")
		if !ok {
			channel, body = "", channel
		}
		p.Process(context.Background(), bot.Message{Channel: channel, Body: body})
	}
	if err := sc.Err(); err != nil {
		return err
	}

	enc := yaml.NewEncoder(a.out)
	defer enc.Close()
	return enc.Encode(rec.Snapshot())
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "versebot version %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("versebot"),
		kong.Description("VerseBot - quote Bible passages cited in chat messages"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&app{cli: &cli, out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
