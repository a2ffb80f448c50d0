//go:build integration

package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/check/models"
	"onboard/pkg/testutil/containers"
)

func TestKafkaDispatcherAgainstRedpanda(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	rp.CreateTopic(t, "verification.requests")

	client, err := NewKafkaClient([]string{rp.Broker}, "verification.requests")
	require.NoError(t, err)
	t.Cleanup(client.Close)

	d := NewKafkaDispatcher(client, "verification.requests", discard)
	require.NoError(t, d.Dispatch(context.Background(), []models.Payload{payload("API-1"), payload("API-2")}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	records := rp.Consume(ctx, t, "verification.requests", 2)

	assert.Equal(t, "API-1", string(records[0].Key))
	assert.Equal(t, "API-2", string(records[1].Key))
	var p models.Payload
	require.NoError(t, json.Unmarshal(records[0].Value, &p))
	assert.Equal(t, models.PayloadIdentityScreening, p.Kind)
}

func TestRedisSpoolReplay(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	spool := NewRedisSpool(rc.Client, "test:spool", discard)

	require.NoError(t, spool.Dispatch(ctx, []models.Payload{payload("API-1"), payload("API-2"), payload("API-3")}))
	pending, err := spool.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)

	target := &countingDispatcher{}
	sent, err := spool.Replay(ctx, target, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, "API-1", target.got[0].Reference)

	target.err = errors.New("still down")
	_, err = spool.Replay(ctx, target, 10)
	require.Error(t, err)
	pending, err = spool.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending, "failed payload is returned to the spool")

	target.err = nil
	sent, err = spool.Replay(ctx, target, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "API-3", target.got[2].Reference)
}
