package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyalabs/arogyabot/internal/i18n"
)

func newWebhookFixture(fastReply bool, timeout time.Duration) (*WebhookService, *fakeConversationStore, *fakePublisher, *fakeDispatcher, *fakeEngine, i18n.Localizer) {
	convStore := newFakeConversationStore()
	publisher := &fakePublisher{}
	dispatcher := &fakeDispatcher{}
	engine := &fakeEngine{answer: "Flu usually resolves with rest."}
	localizer := i18n.Default()
	svc := NewWebhookService(convStore, publisher, dispatcher, engine, localizer, fastReply, timeout)
	return svc, convStore, publisher, dispatcher, engine, localizer
}

func TestHandleInboundEmptyBody(t *testing.T) {
	svc, _, publisher, dispatcher, _, localizer := newWebhookFixture(true, time.Second)

	reply, err := svc.HandleInbound(context.Background(), InboundMessage{From: "whatsapp:+10000000000", Body: "  "})
	require.NoError(t, err)
	assert.Equal(t, localizer.Get("en", i18n.MsgEmptyMessage), reply.Body)
	assert.Empty(t, publisher.published)
	assert.Empty(t, dispatcher.jobs)
}

func TestHandleInboundMissingFrom(t *testing.T) {
	svc, _, _, _, _, _ := newWebhookFixture(true, time.Second)
	_, err := svc.HandleInbound(context.Background(), InboundMessage{Body: "hello"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHandleInboundFastReplySuccess(t *testing.T) {
	svc, convStore, publisher, dispatcher, _, _ := newWebhookFixture(true, time.Second)

	reply, err := svc.HandleInbound(context.Background(), InboundMessage{
		From: "whatsapp:+10000000000",
		Body: "What helps with the flu?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Flu usually resolves with rest.", reply.Body)
	assert.False(t, reply.Queued)
	assert.Empty(t, dispatcher.jobs)

	require.Len(t, publisher.published, 2)
	assert.Equal(t, "user", publisher.published[0].Role)
	assert.Equal(t, "assistant", publisher.published[1].Role)

	conv, err := convStore.FindOrCreateWhatsApp("whatsapp:+10000000000", "en")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, publisher.published[0].ConversationID)
}

func TestHandleInboundFastReplyTimeout(t *testing.T) {
	svc, _, publisher, dispatcher, engine, localizer := newWebhookFixture(true, 20*time.Millisecond)
	engine.delay = 500 * time.Millisecond

	reply, err := svc.HandleInbound(context.Background(), InboundMessage{
		From: "whatsapp:+10000000000",
		Body: "What helps with the flu?",
	})
	require.NoError(t, err)

	assert.True(t, reply.Queued)
	assert.Equal(t, localizer.Get("en", i18n.MsgThinkingReply), reply.Body)

	require.Len(t, dispatcher.jobs, 1)
	assert.Equal(t, "What helps with the flu?", dispatcher.jobs[0].Question)
	assert.Equal(t, "whatsapp:+10000000000", dispatcher.jobs[0].To)

	// Only the user turn is persisted; the worker persists the answer.
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "user", publisher.published[0].Role)
}

func TestHandleInboundFastReplyDisabled(t *testing.T) {
	svc, _, publisher, dispatcher, engine, localizer := newWebhookFixture(false, time.Second)

	reply, err := svc.HandleInbound(context.Background(), InboundMessage{
		From: "whatsapp:+10000000000",
		Body: "What helps with the flu?",
	})
	require.NoError(t, err)

	assert.True(t, reply.Queued)
	assert.Equal(t, localizer.Get("en", i18n.MsgReceivedReply), reply.Body)
	assert.Len(t, dispatcher.jobs, 1)
	assert.Len(t, publisher.published, 1)
	assert.Empty(t, engine.questions)
}

func TestHandleInboundEngineError(t *testing.T) {
	svc, _, publisher, dispatcher, engine, localizer := newWebhookFixture(true, time.Second)
	engine.err = assert.AnError

	reply, err := svc.HandleInbound(context.Background(), InboundMessage{
		From: "whatsapp:+10000000000",
		Body: "What helps with the flu?",
	})
	require.NoError(t, err)

	assert.Equal(t, localizer.Get("en", i18n.MsgErrorMessage), reply.Body)
	assert.Empty(t, dispatcher.jobs)
	assert.Len(t, publisher.published, 1)
}

func TestHandleInboundDetectsBengali(t *testing.T) {
	svc, _, publisher, _, engine, _ := newWebhookFixture(true, time.Second)

	_, err := svc.HandleInbound(context.Background(), InboundMessage{
		From: "whatsapp:+10000000000",
		Body: "ফ্লুর লক্ষণগুলো কী কী?",
	})
	require.NoError(t, err)

	require.Len(t, engine.languages, 1)
	assert.Equal(t, "bn", engine.languages[0])
	require.NotEmpty(t, publisher.published)
	assert.Equal(t, "bn", publisher.published[0].Language)
}

func TestHandleInboundPublishFailure(t *testing.T) {
	svc, _, publisher, _, _, _ := newWebhookFixture(true, time.Second)
	publisher.err = assert.AnError

	_, err := svc.HandleInbound(context.Background(), InboundMessage{
		From: "whatsapp:+10000000000",
		Body: "flu?",
	})
	assert.ErrorIs(t, err, ErrMessageEnqueue)
}

func TestHandleInboundReusesWhatsAppConversation(t *testing.T) {
	svc, convStore, publisher, _, _, _ := newWebhookFixture(true, time.Second)

	_, err := svc.HandleInbound(context.Background(), InboundMessage{From: "whatsapp:+1", Body: "first question about flu"})
	require.NoError(t, err)
	_, err = svc.HandleInbound(context.Background(), InboundMessage{From: "whatsapp:+1", Body: "second question about flu"})
	require.NoError(t, err)

	assert.Len(t, convStore.conversations, 1)
	require.Len(t, publisher.published, 4)
	assert.Equal(t, publisher.published[0].ConversationID, publisher.published[2].ConversationID)
}
