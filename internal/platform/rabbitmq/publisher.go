package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arogyalabs/arogyabot/internal/model"
)

func publishJSON(ctx context.Context, conn *amqp.Connection, queueName string, payload interface{}) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal queue payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish to %s failed: %w", queueName, err)
	}
	return nil
}

// MessagePublisher enqueues chat messages for asynchronous persistence.
type MessagePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewMessagePublisher(conn *amqp.Connection, queueName string) *MessagePublisher {
	return &MessagePublisher{conn: conn, queueName: queueName}
}

func (p *MessagePublisher) Publish(ctx context.Context, msg model.Message) error {
	return publishJSON(ctx, p.conn, p.queueName, msg)
}

// ReplyJobPublisher enqueues WhatsApp reply jobs for the dispatch worker.
type ReplyJobPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewReplyJobPublisher(conn *amqp.Connection, queueName string) *ReplyJobPublisher {
	return &ReplyJobPublisher{conn: conn, queueName: queueName}
}

func (p *ReplyJobPublisher) Dispatch(ctx context.Context, job model.ReplyJob) error {
	return publishJSON(ctx, p.conn, p.queueName, job)
}
