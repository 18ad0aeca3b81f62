package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"coursedesk/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Publisher emits domain lifecycle events. Publishing is best-effort: the
// surrounding operation has already committed by the time an event goes out,
// so a publish failure is logged and never fails the request.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
	mu     sync.Mutex
	closed bool
}

// NewPublisher creates a Kafka-backed publisher, or a no-op publisher when
// no brokers are configured.
func NewPublisher(brokers []string, topic string, log *logger.Logger) Publisher {
	if len(brokers) == 0 {
		log.Info("Event publishing disabled: no Kafka brokers configured")
		return &nopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by key keeps per-entity ordering
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error(fmt.Sprintf("kafka: "+msg, args...))
		}),
	}

	log.Info("Event publisher initialized", "topic", topic, "brokers", brokers)
	return &kafkaPublisher{writer: writer, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode event", "event_type", event.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EntityID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "event-type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			"event_type", event.Type,
			"entity", event.Entity,
			"entity_id", event.EntityID,
			"error", err,
		)
		return
	}

	p.log.Debug("Event published",
		"event_type", event.Type,
		"entity", event.Entity,
		"entity_id", event.EntityID,
	)
}

func (p *kafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

type nopPublisher struct{}

func (*nopPublisher) Publish(context.Context, Event) {}
func (*nopPublisher) Close() error                   { return nil }
