package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// fetchPoller is the slice of kgo.Client the consumer needs.
type fetchPoller interface {
	PollFetches(ctx context.Context) kgo.Fetches
}

// DeadLetterConsumer records events that could not be delivered to the
// primary topic. It performs no remediation yet; replay and alerting hang off
// this once operational experience says what they should look like.
type DeadLetterConsumer struct {
	client fetchPoller
	logger *slog.Logger
}

func NewDeadLetterConsumer(client fetchPoller, logger *slog.Logger) *DeadLetterConsumer {
	return &DeadLetterConsumer{client: client, logger: logger}
}

// Run polls the dead-letter topic until ctx is cancelled.
func (c *DeadLetterConsumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("dead letter fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(c.handle)
	}
}

func (c *DeadLetterConsumer) handle(record *kgo.Record) {
	var event RatingSubmittedEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		c.logger.Error("undecodable dead letter record",
			"partition", record.Partition,
			"offset", record.Offset,
			"error", err,
		)
		return
	}
	c.logger.Error("rating event dead lettered",
		"rating_id", event.RatingID,
		"user_id", event.UserID,
		"course_id", event.CourseID,
		"rating_value", event.RatingValue,
		"submitted_at", event.SubmittedAt,
	)
}
