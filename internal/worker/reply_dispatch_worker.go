package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arogyalabs/arogyabot/internal/i18n"
	"github.com/arogyalabs/arogyabot/internal/model"
)

const replyGenerateTimeout = 90 * time.Second

// ReplySender delivers an outbound WhatsApp message.
type ReplySender interface {
	Send(to, body string) (string, error)
}

// AnswerEngine mirrors the answer pipeline the HTTP path uses.
type AnswerEngine interface {
	Answer(ctx context.Context, question, lang string, history []model.Message) (string, []model.Source, error)
}

// MessagePublisher enqueues the delivered answer for persistence.
type MessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// ReplyDispatchWorker consumes queued reply jobs, regenerates the
// answer, and sends it through the Twilio REST API. The webhook already
// acknowledged the sender, so delivery failures only get an apology.
type ReplyDispatchWorker struct {
	conn      *amqp.Connection
	engine    AnswerEngine
	sender    ReplySender
	publisher MessagePublisher
	localizer i18n.Localizer
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReplyDispatchWorker(
	conn *amqp.Connection,
	engine AnswerEngine,
	sender ReplySender,
	publisher MessagePublisher,
	localizer i18n.Localizer,
	queueName string,
) *ReplyDispatchWorker {
	return &ReplyDispatchWorker{
		conn:      conn,
		engine:    engine,
		sender:    sender,
		publisher: publisher,
		localizer: localizer,
		queueName: queueName,
	}
}

func (w *ReplyDispatchWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	deliveries, ch, err := consumeQueue(w.conn, w.queueName)
	if err != nil {
		cancel()
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handleDelivery(workerCtx, d)
			}
		}
	}()

	return nil
}

// handleDelivery decodes one reply job and processes it. Undecodable
// jobs are dead-lettered, never requeued; processed jobs are always
// acked because the sender path has its own failure handling.
func (w *ReplyDispatchWorker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var job model.ReplyJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		slog.Error("reply worker decode failed", slog.String("error", err.Error()))
		_ = d.Nack(false, false)
		return
	}

	w.process(ctx, job)
	_ = d.Ack(false)
}

func (w *ReplyDispatchWorker) process(ctx context.Context, job model.ReplyJob) {
	genCtx, cancel := context.WithTimeout(ctx, replyGenerateTimeout)
	defer cancel()

	answerText, sources, err := w.engine.Answer(genCtx, job.Question, job.Language, nil)
	if err != nil {
		slog.Error("reply worker generation failed",
			slog.Uint64("conversation_id", uint64(job.ConversationID)),
			slog.String("error", err.Error()))
		apology := w.localizer.Get(job.Language, i18n.MsgApology)
		if _, sendErr := w.sender.Send(job.To, apology); sendErr != nil {
			slog.Error("reply worker apology send failed", slog.String("error", sendErr.Error()))
		}
		return
	}

	sid, err := w.sender.Send(job.To, answerText)
	if err != nil {
		slog.Error("reply worker send failed",
			slog.Uint64("conversation_id", uint64(job.ConversationID)),
			slog.String("error", err.Error()))
		return
	}
	slog.Info("async reply delivered", slog.String("sid", sid), slog.String("to", job.To))

	assistantMessage := model.Message{
		ConversationID: job.ConversationID,
		Role:           "assistant",
		Content:        answerText,
		Language:       job.Language,
		CreatedAt:      time.Now(),
	}
	assistantMessage.SetSources(sources)
	if err := w.publisher.Publish(ctx, assistantMessage); err != nil {
		slog.Error("reply worker persist enqueue failed", slog.String("error", err.Error()))
	}
}

func (w *ReplyDispatchWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
