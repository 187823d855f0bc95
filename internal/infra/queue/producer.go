package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type Publisher interface {
	Publish(ctx context.Context, event entity.LeadEvent) error
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Publish(ctx context.Context, event entity.LeadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}
	return nil
}

// LogPublisher writes events to the log. Used when RABBITMQ_URL is unset.
type LogPublisher struct {
	Logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{Logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event entity.LeadEvent) error {
	p.Logger.InfoContext(ctx, event.Title,
		"event_id", event.ID,
		"type", event.Type,
		"description", event.Description,
		"lead_ids", event.LeadIDs,
	)
	return nil
}

// ObservedPublisher calls Observe after every publish attempt.
type ObservedPublisher struct {
	Next    Publisher
	Observe func(event entity.LeadEvent, err error)
}

func (p ObservedPublisher) Publish(ctx context.Context, event entity.LeadEvent) error {
	err := p.Next.Publish(ctx, event)
	if p.Observe != nil {
		p.Observe(event, err)
	}
	return err
}
