//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// RedpandaContainer wraps a Kafka-compatible Redpanda broker.
type RedpandaContainer struct {
	Broker string
	Admin  *kadm.Client
}

// NewRedpandaContainer starts Redpanda and terminates it when the test ends.
func NewRedpandaContainer(t *testing.T) *RedpandaContainer {
	t.Helper()
	ctx := context.Background()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start redpanda container: %v", err)
	}

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		t.Fatalf("failed to get redpanda seed broker: %v", err)
	}

	client, err := kgo.NewClient(kgo.SeedBrokers(broker))
	if err != nil {
		t.Fatalf("failed to create kafka admin client: %v", err)
	}
	t.Cleanup(client.Close)

	return &RedpandaContainer{Broker: broker, Admin: kadm.NewClient(client)}
}

// CreateTopic creates a single-partition topic.
func (r *RedpandaContainer) CreateTopic(t *testing.T, topic string) {
	t.Helper()
	resp, err := r.Admin.CreateTopics(context.Background(), 1, 1, nil, topic)
	if err != nil {
		t.Fatalf("failed to create topic %s: %v", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil {
			t.Fatalf("failed to create topic %s: %v", r.Topic, r.Err)
		}
	}
}

// Consume reads exactly n records from topic, failing the test on timeout.
func (r *RedpandaContainer) Consume(ctx context.Context, t *testing.T, topic string, n int) []*kgo.Record {
	t.Helper()
	client, err := kgo.NewClient(
		kgo.SeedBrokers(r.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		t.Fatalf("failed to create consumer: %v", err)
	}
	defer client.Close()

	var out []*kgo.Record
	for len(out) < n {
		fetches := client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			t.Fatalf("timed out after %d of %d records: %v", len(out), n, err)
		}
		fetches.EachError(func(_ string, _ int32, err error) {
			t.Fatalf("fetch failed: %v", err)
		})
		out = append(out, fetches.Records()...)
	}
	return out
}
