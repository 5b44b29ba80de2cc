// Package bot ties the citation scanner, resolvers and reply builder into
// the handling of one incoming chat message.
package bot

import (
	"context"
	"time"

	"github.com/FocuswithJustin/versebot/core/citation"
	"github.com/FocuswithJustin/versebot/core/response"
	"github.com/FocuswithJustin/versebot/core/translation"
	"github.com/FocuswithJustin/versebot/core/verse"
	"github.com/FocuswithJustin/versebot/internal/fetch"
	"github.com/FocuswithJustin/versebot/internal/logging"
	"github.com/FocuswithJustin/versebot/internal/stats"
)

// Outcome classifies how a message was handled.
type Outcome int

const (
	// NoCitations means the message held no recognizable citation.
	NoCitations Outcome = iota
	// NoReply means citations were found but none produced content.
	NoReply
	// Full means the reply quotes every passage.
	Full
	// Overflow means the reply lists links instead of quotations.
	Overflow
)

func (o Outcome) String() string {
	switch o {
	case NoCitations:
		return "no_citations"
	case NoReply:
		return "no_reply"
	case Full:
		return "full"
	case Overflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Message is one incoming chat message.
type Message struct {
	Author  string
	Channel string
	Body    string
}

// Result is what Process decided for a message.
type Result struct {
	RequestID string
	Outcome   Outcome
	Citations int

	// Reply is empty unless Outcome is Full or Overflow.
	Reply string

	// Verses are the verses that appear in Reply.
	Verses   []*verse.Verse
	Failures []response.Failure
}

// Posted reports whether a reply should be posted.
func (r Result) Posted() bool {
	return r.Outcome == Full || r.Outcome == Overflow
}

// Moderators decides who may change a channel's default translations.
type Moderators interface {
	IsModerator(channel, user string) bool
}

// Options configures a Processor. Only Fetcher is required.
type Options struct {
	Verses    *verse.Resolver
	Fetcher   response.Fetcher
	Reply     response.Config
	Catalog   translation.Availability
	Users     translation.Store
	Channels  translation.Store
	Moderator Moderators
	Stats     *stats.Recorder

	// Prefetch is the number of passages fetched in parallel before the
	// reply is built. It only pays off with a caching Fetcher; 0 or 1
	// disables it, as does a nil Fetcher.
	Prefetch int
}

// Processor handles messages. It is safe for concurrent use as long as
// the configured stores and fetcher are.
type Processor struct {
	verses    *verse.Resolver
	fetcher   response.Fetcher
	reply     response.Config
	catalog   translation.Availability
	users     translation.Store
	channels  translation.Store
	moderator Moderators
	stats     *stats.Recorder
	prefetch  int
}

// New creates a Processor. Missing resolvers and stores are replaced with
// the built-in catalog, standard defaults and empty in-memory stores.
func New(opts Options) *Processor {
	p := &Processor{
		verses:    opts.Verses,
		fetcher:   opts.Fetcher,
		reply:     opts.Reply,
		catalog:   opts.Catalog,
		users:     opts.Users,
		channels:  opts.Channels,
		moderator: opts.Moderator,
		stats:     opts.Stats,
		prefetch:  opts.Prefetch,
	}
	if p.verses == nil {
		p.verses = verse.NewResolver(nil, nil)
	}
	if p.catalog == nil {
		p.catalog = translation.DefaultCatalog()
	}
	if p.users == nil {
		p.users = translation.NewMapStore()
	}
	if p.channels == nil {
		p.channels = translation.NewMapStore()
	}
	return p
}

// Users returns the per-user defaults store.
func (p *Processor) Users() translation.Store { return p.users }

// Channels returns the per-channel defaults store.
func (p *Processor) Channels() translation.Store { return p.channels }

// Process scans msg for citations and builds the reply. A user's own
// defaults take precedence over the channel's.
func (p *Processor) Process(ctx context.Context, msg Message) Result {
	start := time.Now()
	res := Result{RequestID: logging.NewRequestID()}
	ctx = logging.WithRequestID(ctx, res.RequestID)

	defer func() {
		logging.MessageProcessed(ctx, res.Outcome.String(), res.Citations, len(res.Verses), time.Since(start),
			"channel", msg.Channel)
	}()

	citations := citation.Scan(msg.Body)
	res.Citations = len(citations)

	b := response.NewBuilder(msg.Body, p.fetcher, p.reply)
	prefs := []translation.Lookup{
		translation.ForSubject(p.users, msg.Author),
		translation.ForSubject(p.channels, msg.Channel),
	}
	for _, v := range p.verses.ResolveAll(citations, prefs...) {
		b.Add(v)
	}
	if b.Len() == 0 {
		res.Outcome = NoCitations
		return res
	}
	p.touch(msg.Author)

	if p.prefetch > 1 && p.fetcher != nil {
		fetch.Prefetch(ctx, p.fetcher, b.Verses(), p.prefetch)
	}

	reply, ok := b.Build(ctx)
	res.Failures = b.Failures()
	if !ok {
		res.Outcome = NoReply
		return res
	}

	res.Reply = reply
	res.Outcome = Full
	if b.Overflowed() {
		res.Outcome = Overflow
		res.Verses = b.Verses()
	} else {
		for _, v := range b.Verses() {
			if v.HasContent() {
				res.Verses = append(res.Verses, v)
			}
		}
	}

	if p.stats != nil {
		p.stats.Record(msg.Channel, res.Verses)
	}
	return res
}

// Retract undoes the statistics of a reply that was edited or deleted.
func (p *Processor) Retract(channel, reply string) int {
	if p.stats == nil {
		return 0
	}
	return p.stats.Retract(channel, reply)
}

// PruneUsers removes user defaults unused for maxAge, when the user store
// supports it, and returns how many were removed.
func (p *Processor) PruneUsers(maxAge time.Duration) int {
	pr, ok := p.users.(interface{ Prune(time.Duration) int })
	if !ok {
		return 0
	}
	n := pr.Prune(maxAge)
	if n > 0 {
		logging.Info("user_defaults_pruned", "removed", n, "max_age", maxAge.String())
	}
	return n
}

func (p *Processor) touch(user string) {
	if t, ok := p.users.(interface{ Touch(string) }); ok && user != "" {
		t.Touch(user)
	}
}
