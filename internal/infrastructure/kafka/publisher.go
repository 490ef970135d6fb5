package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fundchain/riskd/pkg/events"
	pkgkafka "github.com/fundchain/riskd/pkg/kafka"
)

// MessagePublisher sends raw messages to a topic.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements port.EventPublisher using Kafka. Each event is sent
// as a JSON envelope keyed by its aggregate ID.
type Publisher struct {
	producer MessagePublisher
	logger   *slog.Logger
	topic    string
}

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(producer MessagePublisher, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		value, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("failed to marshal envelope %s: %w", env.EventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", env.EventType),
			slog.String("event_id", env.ID.String()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(value)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(env.AggregateID.String()),
			Value: value,
			Headers: map[string]string{
				"event_type": env.EventType,
				"event_id":   env.ID.String(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}
