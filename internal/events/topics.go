package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

const (
	ratingsPartitions    = 3
	deadLetterPartitions = 1
	replicationFactor    = 1
)

// EnsureTopics creates the primary and dead-letter topics when they do not
// exist. The primary topic is multi-partition so per-user keys spread load;
// the dead-letter topic keeps a single partition for simple inspection.
func EnsureTopics(ctx context.Context, adm *kadm.Client, primary, deadLetter string) error {
	if _, err := adm.CreateTopic(ctx, ratingsPartitions, replicationFactor, nil, primary); err != nil {
		if !errors.Is(err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", primary, err)
		}
	}
	if _, err := adm.CreateTopic(ctx, deadLetterPartitions, replicationFactor, nil, deadLetter); err != nil {
		if !errors.Is(err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", deadLetter, err)
		}
	}
	return nil
}
