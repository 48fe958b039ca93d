package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"ratingsvc/internal/platform/metrics"
)

// producer is the slice of kgo.Client the publisher needs; tests substitute a
// fake to drive the acknowledgment callbacks.
type producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// Publisher delivers rating events to the primary topic, keyed by user id so
// one user's events stay ordered relative to each other. Publishing is
// fire-and-forget for the submission workflow: events are queued on an inbox
// channel and a worker goroutine drains it. When the broker rejects a record
// the identical payload is forwarded to the dead-letter topic; if that also
// fails the event is logged and dropped.
type Publisher struct {
	producer        producer
	topic           string
	deadLetterTopic string
	inbox           chan RatingSubmittedEvent
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

const defaultInboxSize = 256

func NewPublisher(p producer, topic, deadLetterTopic string, logger *slog.Logger, m *metrics.Metrics) *Publisher {
	return &Publisher{
		producer:        p,
		topic:           topic,
		deadLetterTopic: deadLetterTopic,
		inbox:           make(chan RatingSubmittedEvent, defaultInboxSize),
		logger:          logger,
		metrics:         m,
	}
}

// Publish hands an event to the publisher without blocking the caller. When
// the inbox is saturated the event is dropped rather than stalling the
// submission path.
func (p *Publisher) Publish(event RatingSubmittedEvent) {
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("event inbox full, dropping event",
			"rating_id", event.RatingID,
			"user_id", event.UserID,
		)
		p.metrics.EventsDropped.Inc()
	}
}

// Run drains the inbox until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-p.inbox:
			p.produce(ctx, event)
		}
	}
}

func (p *Publisher) produce(ctx context.Context, event RatingSubmittedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode rating event",
			"rating_id", event.RatingID,
			"error", err,
		)
		p.metrics.EventsDropped.Inc()
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.UserID.String()),
		Value: payload,
	}
	p.producer.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err == nil {
			p.metrics.EventsPublished.Inc()
			p.logger.Info("published rating event",
				"rating_id", event.RatingID,
				"user_id", event.UserID,
				"course_id", event.CourseID,
				"partition", r.Partition,
				"offset", r.Offset,
			)
			return
		}

		p.logger.Error("failed to publish rating event, forwarding to dead letter topic",
			"rating_id", event.RatingID,
			"user_id", event.UserID,
			"course_id", event.CourseID,
			"error", err,
		)
		p.deadLetter(ctx, event, record)
	})
}

func (p *Publisher) deadLetter(ctx context.Context, event RatingSubmittedEvent, original *kgo.Record) {
	record := &kgo.Record{
		Topic: p.deadLetterTopic,
		Key:   original.Key,
		Value: original.Value,
	}
	p.producer.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			// Last tier: nothing further to try.
			p.logger.Error("failed to dead letter rating event, dropping",
				"rating_id", event.RatingID,
				"error", err,
			)
			p.metrics.EventsDropped.Inc()
			return
		}
		p.logger.Warn("rating event sent to dead letter topic",
			"rating_id", event.RatingID,
		)
		p.metrics.EventsDeadLettered.Inc()
	})
}
