// Command dlq-consumer tails the dead-letter topic and surfaces every rating
// event that could not be delivered, so operators notice losses instead of
// discovering them during reconciliation.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/twmb/franz-go/pkg/kgo"

	"ratingsvc/internal/events"
	"ratingsvc/internal/platform/config"
	"ratingsvc/internal/platform/logger"
)

const consumerGroup = "rating-service-dlq-group"

func main() {
	log := logger.New("rating-dlq-consumer")

	if err := run(log); err != nil {
		log.Error("dlq consumer exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.LoadConsumer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.KafkaBrokers...),
		kgo.ConsumerGroup(consumerGroup),
		kgo.ConsumeTopics(cfg.DeadLetterTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	log.Info("dlq consumer started",
		"topic", cfg.DeadLetterTopic,
		"group", consumerGroup,
	)

	consumer := events.NewDeadLetterConsumer(client, log)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("dlq consumer stopped")
	return nil
}
