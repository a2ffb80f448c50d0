// Package dispatch delivers built verification payloads to the provider's
// intake topic, with a Redis spool for when the broker is unhealthy.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"onboard/internal/check/models"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

const (
	HeaderKind      = "payload-kind"
	HeaderRequestID = "request-id"
)

// Producer is the subset of *kgo.Client the dispatcher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaDispatcher publishes each payload as one JSON record keyed by its
// reference, so every request for a case lands on the same partition.
type KafkaDispatcher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

func NewKafkaDispatcher(producer Producer, topic string, logger *slog.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topic: topic, logger: logger}
}

// NewKafkaClient builds a franz-go client that waits for all in-sync replicas.
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// Dispatch produces all payloads synchronously and fails on the first error.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, payloads []models.Payload) error {
	records := make([]*kgo.Record, 0, len(payloads))
	for _, p := range payloads {
		r, err := d.record(ctx, p)
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	if err := d.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w: %w", d.topic, sentinel.ErrUnavailable, err)
	}
	for _, p := range payloads {
		d.logger.InfoContext(ctx, "verification request published",
			"topic", d.topic,
			"kind", string(p.Kind),
			"reference", p.Reference,
		)
	}
	return nil
}

func (d *KafkaDispatcher) record(ctx context.Context, p models.Payload) (*kgo.Record, error) {
	value, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload %s: %w", p.Reference, err)
	}
	headers := []kgo.RecordHeader{{Key: HeaderKind, Value: []byte(p.Kind)}}
	if id := requestcontext.RequestID(ctx); id != "" {
		headers = append(headers, kgo.RecordHeader{Key: HeaderRequestID, Value: []byte(id)})
	}
	return &kgo.Record{
		Topic:   d.topic,
		Key:     []byte(p.Reference),
		Value:   value,
		Headers: headers,
	}, nil
}
