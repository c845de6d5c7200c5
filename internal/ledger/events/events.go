// Package events publishes ledger domain events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"almanah/internal/ledger/models"
	"almanah/internal/platform/kafka"
)

// Sender is the producer surface used by the publisher.
type Sender interface {
	Publish(ctx context.Context, msg kafka.Message, done func(error))
}

// KafkaPublisher writes CardClaimed events keyed by user, so one user's
// claims stay ordered within a partition.
type KafkaPublisher struct {
	sender    Sender
	topic     string
	logger    *slog.Logger
	onFailure func()
}

type Option func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

// WithFailureHook is called once per record that fails delivery.
func WithFailureHook(fn func()) Option {
	return func(p *KafkaPublisher) {
		p.onFailure = fn
	}
}

func NewKafkaPublisher(sender Sender, topic string, opts ...Option) *KafkaPublisher {
	p := &KafkaPublisher{sender: sender, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishCardClaimed enqueues the event. Delivery errors are reported
// asynchronously through the logger and failure hook.
func (p *KafkaPublisher) PublishCardClaimed(ctx context.Context, event models.CardClaimed) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode card claimed event: %w", err)
	}
	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.UserID.String()),
		Value: value,
		Headers: map[string]string{
			"event_type": models.EventTypeCardClaimed,
		},
	}
	if event.RequestID != "" {
		msg.Headers["request_id"] = event.RequestID
	}
	// The record outlives the request; detach it from request cancellation.
	p.sender.Publish(context.WithoutCancel(ctx), msg, func(err error) {
		if err == nil {
			return
		}
		p.logger.Warn("card claimed event delivery failed",
			"entry_id", event.EntryID.String(),
			"user_id", event.UserID.String(),
			"error", err,
		)
		if p.onFailure != nil {
			p.onFailure()
		}
	})
	return nil
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishCardClaimed(ctx context.Context, event models.CardClaimed) error {
	p.logger.InfoContext(ctx, models.EventTypeCardClaimed,
		"entry_id", event.EntryID.String(),
		"user_id", event.UserID.String(),
		"printed_card_id", event.PrintedCardID.String(),
		"template_id", event.TemplateID.String(),
		"event_id", event.EventID.String(),
		"log_type", "domain_event",
	)
	return nil
}
