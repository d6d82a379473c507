// Package i18n localizes the bot's canned replies (acks, apologies,
// disclaimers) for the supported answer languages.
package i18n

import (
	"embed"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.toml
var f embed.FS

// Message IDs present in every catalog.
const (
	MsgDisclaimer     = "disclaimer"
	MsgEmptyMessage   = "empty_message"
	MsgThinkingReply  = "thinking_reply"
	MsgReceivedReply  = "received_reply"
	MsgErrorMessage   = "error_message"
	MsgApology        = "apology"
	MsgServerError    = "server_error"
	MsgNoSourcesFound = "no_sources_found"
)

// SupportedLanguages in catalog order; the first is the fallback.
var SupportedLanguages = []string{"en", "bn", "hi"}

type Localizer struct {
	bundle   *i18n.Bundle
	registry map[string]*i18n.Localizer
}

func NewLocalizer(languages ...string) Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, lang := range languages {
		path := lang + ".toml"
		if _, err := bundle.LoadMessageFileFS(f, path); err != nil {
			slog.Error("failed to load i18n message catalog", slog.String("lang", lang), slog.String("file", path), slog.String("error", err.Error()))
		}
	}

	l := Localizer{
		bundle:   bundle,
		registry: make(map[string]*i18n.Localizer),
	}
	for _, lang := range languages {
		l.registry[lang] = i18n.NewLocalizer(bundle, lang)
	}
	return l
}

// Default loads all supported catalogs.
func Default() Localizer {
	return NewLocalizer(SupportedLanguages...)
}

// Get returns the message for the language, falling back to English and
// finally to the id itself.
func (l Localizer) Get(lang, id string) string {
	localizer := l.registry[lang]
	if localizer == nil {
		localizer = l.registry["en"]
	}
	if localizer == nil {
		return id
	}

	str, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: id,
		},
	})
	if err != nil {
		slog.Debug("localize failed", slog.String("id", id), slog.String("lang", lang), slog.String("error", err.Error()))
		return id
	}
	return str
}
