package bot

import (
	"context"

	"github.com/FocuswithJustin/versebot/core/books"
	"github.com/FocuswithJustin/versebot/core/citation"
	"github.com/FocuswithJustin/versebot/core/errors"
	"github.com/FocuswithJustin/versebot/core/translation"
	"github.com/FocuswithJustin/versebot/internal/logging"
	"github.com/FocuswithJustin/versebot/internal/validation"
)

// Kinds of defaults update.
const (
	KindUser    = "user"
	KindChannel = "channel"
)

// DefaultsUpdate describes a stored change of default translations.
type DefaultsUpdate struct {
	Kind     string
	Subject  string
	Defaults translation.Defaults
}

// UpdateDefaults applies a request to change default translations. The body
// carries "{OT} {NT} {DEUT}"; with a channel target such as "[r/name]" or
// "[#name]" the channel's defaults change, which requires the author to be
// one of its moderators. Otherwise the author's own defaults change.
//
// Every code must be available for its section. Errors are a
// ValidationError (malformed request or unavailable translation) or a
// PermissionError.
func (p *Processor) UpdateDefaults(ctx context.Context, author, body string) (DefaultsUpdate, error) {
	ctx = logging.WithRequestID(ctx, logging.NewRequestID())

	defaults, ok := citation.ParseDefaults(body)
	if !ok {
		return DefaultsUpdate{}, errors.NewValidation("defaults", "expected {OT} {NT} {DEUT}")
	}

	update := DefaultsUpdate{Kind: KindUser, Subject: author, Defaults: defaults}
	store := p.users
	if channel, ok := citation.ParseTarget(body); ok {
		update.Kind = KindChannel
		update.Subject = channel
		store = p.channels
	}

	if err := validation.ValidateSubject(update.Subject); err != nil {
		return DefaultsUpdate{}, &errors.ValidationError{Field: update.Kind, Message: err.Error(), Err: err}
	}

	for _, s := range books.Sections() {
		code := defaults.For(s)
		if !p.catalog.IsValid(code, s) {
			unavailable := errors.NewUnavailable(code, s.String())
			return DefaultsUpdate{}, &errors.ValidationError{
				Field:   "defaults." + s.Key(),
				Message: unavailable.Error(),
				Err:     unavailable,
			}
		}
	}

	if update.Kind == KindChannel && (p.moderator == nil || !p.moderator.IsModerator(update.Subject, author)) {
		logging.SecurityEvent("defaults_denied", "bot", "channel", update.Subject, "user", author)
		return DefaultsUpdate{}, errors.NewPermission("change defaults", update.Subject, author+" is not a moderator")
	}

	store.Set(update.Subject, defaults)
	logging.DefaultsUpdated(ctx, update.Kind, update.Subject, defaults.OT, defaults.NT, defaults.Deut)
	return update, nil
}
