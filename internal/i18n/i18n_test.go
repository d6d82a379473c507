package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLocalizedMessages(t *testing.T) {
	l := Default()

	en := l.Get("en", MsgEmptyMessage)
	bn := l.Get("bn", MsgEmptyMessage)
	hi := l.Get("hi", MsgEmptyMessage)

	assert.Equal(t, "Sorry, I didn't get any text. Please send a message.", en)
	assert.NotEqual(t, en, bn)
	assert.NotEqual(t, en, hi)
	assert.NotEqual(t, MsgEmptyMessage, bn)
}

func TestGetUnknownLanguageFallsBackToEnglish(t *testing.T) {
	l := Default()
	assert.Equal(t, l.Get("en", MsgThinkingReply), l.Get("fr", MsgThinkingReply))
}

func TestGetUnknownIDReturnsID(t *testing.T) {
	l := Default()
	assert.Equal(t, "no_such_message", l.Get("en", "no_such_message"))
}

func TestAllCatalogsCoverEveryMessage(t *testing.T) {
	l := Default()
	ids := []string{
		MsgDisclaimer,
		MsgEmptyMessage,
		MsgThinkingReply,
		MsgReceivedReply,
		MsgErrorMessage,
		MsgApology,
		MsgServerError,
		MsgNoSourcesFound,
	}
	for _, language := range SupportedLanguages {
		for _, id := range ids {
			got := l.Get(language, id)
			assert.NotEqual(t, id, got, "missing %s in %s catalog", id, language)
		}
	}
}
