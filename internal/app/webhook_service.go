package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/arogyalabs/arogyabot/internal/i18n"
	"github.com/arogyalabs/arogyabot/internal/lang"
	"github.com/arogyalabs/arogyabot/internal/model"
)

// WebhookService handles inbound WhatsApp messages. When fast reply is
// enabled it answers synchronously if generation finishes within the
// deadline; otherwise it acknowledges and hands the question to the
// reply dispatch queue.
type WebhookService struct {
	convStore  ConversationStore
	publisher  AsyncMessagePublisher
	dispatcher ReplyDispatcher
	engine     AnswerEngine
	localizer  i18n.Localizer

	fastReply       bool
	generateTimeout time.Duration
}

type InboundMessage struct {
	From string
	Body string
}

type WebhookReply struct {
	Body string
	// Queued reports that the reply text is an acknowledgement and the
	// real answer will arrive asynchronously.
	Queued bool
}

func NewWebhookService(
	convStore ConversationStore,
	publisher AsyncMessagePublisher,
	dispatcher ReplyDispatcher,
	engine AnswerEngine,
	localizer i18n.Localizer,
	fastReply bool,
	generateTimeout time.Duration,
) *WebhookService {
	if generateTimeout <= 0 {
		generateTimeout = 6 * time.Second
	}
	return &WebhookService{
		convStore:       convStore,
		publisher:       publisher,
		dispatcher:      dispatcher,
		engine:          engine,
		localizer:       localizer,
		fastReply:       fastReply,
		generateTimeout: generateTimeout,
	}
}

func (s *WebhookService) HandleInbound(ctx context.Context, in InboundMessage) (WebhookReply, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return WebhookReply{Body: s.localizer.Get("en", i18n.MsgEmptyMessage)}, nil
	}
	if in.From == "" {
		return WebhookReply{}, ErrInvalidInput
	}

	language := lang.Detect(body)

	conv, err := s.convStore.FindOrCreateWhatsApp(in.From, language)
	if err != nil {
		return WebhookReply{}, err
	}

	if s.publisher == nil {
		return WebhookReply{}, ErrMessageEnqueue
	}
	userMessage := model.Message{
		ConversationID: conv.ID,
		Role:           "user",
		Content:        body,
		Language:       language,
		CreatedAt:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, userMessage); err != nil {
		return WebhookReply{}, ErrMessageEnqueue
	}

	job := model.ReplyJob{
		ConversationID: conv.ID,
		To:             in.From,
		Question:       body,
		Language:       language,
	}

	if !s.fastReply {
		if err := s.dispatcher.Dispatch(ctx, job); err != nil {
			return WebhookReply{}, err
		}
		return WebhookReply{Body: s.localizer.Get(language, i18n.MsgReceivedReply), Queued: true}, nil
	}

	answerText, sources, done, err := s.tryGenerate(ctx, body, language)
	if !done {
		// Generation missed the deadline; the queued job regenerates and
		// delivers through the Twilio REST API.
		slog.Info("synchronous generation timed out, falling back to async",
			slog.Duration("timeout", s.generateTimeout),
			slog.Uint64("conversation_id", uint64(conv.ID)))
		if err := s.dispatcher.Dispatch(ctx, job); err != nil {
			return WebhookReply{}, err
		}
		return WebhookReply{Body: s.localizer.Get(language, i18n.MsgThinkingReply), Queued: true}, nil
	}
	if err != nil {
		slog.Error("webhook answer generation failed", slog.String("error", err.Error()))
		return WebhookReply{Body: s.localizer.Get(language, i18n.MsgErrorMessage)}, nil
	}

	assistantMessage := model.Message{
		ConversationID: conv.ID,
		Role:           "assistant",
		Content:        answerText,
		Language:       language,
		CreatedAt:      time.Now(),
	}
	assistantMessage.SetSources(sources)
	if err := s.publisher.Publish(ctx, assistantMessage); err != nil {
		slog.Error("enqueue assistant message failed", slog.String("error", err.Error()))
	}

	return WebhookReply{Body: answerText}, nil
}

// tryGenerate runs the engine under the fast-reply deadline. done is
// false when the deadline expired before the engine finished; the
// abandoned goroutine's result is discarded.
func (s *WebhookService) tryGenerate(ctx context.Context, question, language string) (string, []model.Source, bool, error) {
	type result struct {
		answer  string
		sources []model.Source
		err     error
	}

	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	ch := make(chan result, 1)
	go func() {
		answer, sources, err := s.engine.Answer(genCtx, question, language, nil)
		ch <- result{answer: answer, sources: sources, err: err}
	}()

	select {
	case r := <-ch:
		if genCtx.Err() != nil && r.err != nil {
			// The engine returned because the deadline killed it.
			return "", nil, false, nil
		}
		return r.answer, r.sources, true, r.err
	case <-genCtx.Done():
		return "", nil, false, nil
	}
}
