package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"loanflow/internal/core/domain"

	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaDecisionPublisher publishes review decisions to a Kafka topic,
// keyed by application id so every event of an application lands on one partition.
type KafkaDecisionPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaDecisionPublisher creates a publisher writing to topic on brokers
func NewKafkaDecisionPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaDecisionPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	return newKafkaDecisionPublisher(w, topic, logger)
}

func newKafkaDecisionPublisher(w messageWriter, topic string, logger *slog.Logger) *KafkaDecisionPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaDecisionPublisher{writer: w, topic: topic, logger: logger}
}

// PublishDecision sends one decision event
func (p *KafkaDecisionPublisher) PublishDecision(ctx context.Context, evt domain.DecisionEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
	}

	msg := kafkago.Message{
		Key:   []byte(evt.ApplicationID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(evt.EventType())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.topic, err)
	}

	p.logger.Debug("decision event published",
		slog.String("topic", p.topic),
		slog.String("application_id", evt.ApplicationID),
		slog.String("status", string(evt.Status)),
	)
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaDecisionPublisher) Close() error {
	return p.writer.Close()
}
