package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

// Notifier delivers a lead event to people (email, chat, ...).
type Notifier interface {
	SendLeadEvent(ctx context.Context, event entity.LeadEvent) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
}

func NewWorker(ch *amqp.Channel, notifier Notifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("worker consuming", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped", "queue", queueName)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.process(ctx, d.Body); err != nil {
		slog.Error("lead event rejected", "message_id", d.MessageId, "error", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	var event entity.LeadEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed event: %w", err)
	}
	if event.Type == "" {
		return fmt.Errorf("event %q has no type", event.ID)
	}

	slog.Info("lead event received", "event_id", event.ID, "type", event.Type, "leads", len(event.LeadIDs))
	return w.Notifier.SendLeadEvent(ctx, event)
}
