package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arogyalabs/arogyabot/internal/model"
)

// MessageWriter persists a decoded message.
type MessageWriter interface {
	Create(msg *model.Message) error
}

// MessagePersistWorker drains the persist queue into MySQL so the HTTP
// path never writes messages synchronously.
type MessagePersistWorker struct {
	conn      *amqp.Connection
	repo      MessageWriter
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMessagePersistWorker(conn *amqp.Connection, repo MessageWriter, queueName string) *MessagePersistWorker {
	return &MessagePersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *MessagePersistWorker) Start(ctx context.Context) error {
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
				w.handleDelivery(d)
			}
		}
	}()

	return nil
}

// handleDelivery decodes and persists one delivery. Undecodable or
// unwritable messages are dead-lettered, never requeued.
func (w *MessagePersistWorker) handleDelivery(d amqp.Delivery) {
	var msg model.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		slog.Error("persist worker decode failed", slog.String("error", err.Error()))
		_ = d.Nack(false, false)
		return
	}

	if err := w.repo.Create(&msg); err != nil {
		slog.Error("persist worker write failed", slog.String("error", err.Error()))
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *MessagePersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func consumeQueue(conn *amqp.Connection, queueName string) (<-chan amqp.Delivery, *amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("consume queue failed: %w", err)
	}

	return deliveries, ch, nil
}
