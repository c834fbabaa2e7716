// Package worker drains the audit topic into a persistent store. It runs as a
// background goroutine next to the gateway; losing it never affects request
// handling.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"taskgate/internal/platform/audit"
)

// Worker consumes audit events from Kafka and persists them.
type Worker struct {
	client *kgo.Client
	store  audit.Store
	logger *slog.Logger
}

// New creates a consumer in the given group. Every gateway deployment shares
// one group so events are stored exactly once per store.
func New(brokers []string, topic, group string, store audit.Store, logger *slog.Logger) (*Worker, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Worker{client: client, store: store, logger: logger}, nil
}

// Run polls until the context is canceled. Malformed records are logged and
// skipped; store failures are logged and the record is dropped rather than
// wedging the consumer.
func (w *Worker) Run(ctx context.Context) error {
	for {
		fetches := w.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			w.logger.Error("audit fetch error", "topic", topic, "partition", partition, "error", err)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			var event audit.Event
			if err := json.Unmarshal(record.Value, &event); err != nil {
				w.logger.Warn("skipping malformed audit record", "error", err)
				return
			}
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("failed to persist audit event", "action", event.Action, "error", err)
			}
		})
	}
}

// Close releases the consumer.
func (w *Worker) Close() {
	w.client.Close()
}
