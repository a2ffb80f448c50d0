package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"onboard/internal/check/models"
	"onboard/pkg/platform/circuit"
	"onboard/pkg/requestcontext"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		p.records = append(p.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

// stalledDispatcher models an unreachable broker: it blocks until the
// caller's context ends.
type stalledDispatcher struct {
	calls int
}

func (d *stalledDispatcher) Dispatch(ctx context.Context, _ []models.Payload) error {
	d.calls++
	<-ctx.Done()
	return ctx.Err()
}

// contextRecorder records whether it was handed a live context.
type contextRecorder struct {
	live []bool
}

func (d *contextRecorder) Dispatch(ctx context.Context, _ []models.Payload) error {
	d.live = append(d.live, ctx.Err() == nil)
	return ctx.Err()
}

type countingDispatcher struct {
	calls int
	err   error
	got   []models.Payload
}

func (d *countingDispatcher) Dispatch(_ context.Context, payloads []models.Payload) error {
	d.calls++
	if d.err != nil {
		return d.err
	}
	d.got = append(d.got, payloads...)
	return nil
}

func payload(ref string) models.Payload {
	return models.Payload{
		Kind:      models.PayloadIdentityScreening,
		Reference: ref,
		Tasks:     []models.Task{{Type: models.TaskIdentity}, {Type: models.TaskScreening}},
	}
}

func TestKafkaDispatcher(t *testing.T) {
	t.Run("one record per payload keyed by reference", func(t *testing.T) {
		producer := &fakeProducer{}
		d := NewKafkaDispatcher(producer, "verification.requests", discard)
		ctx := requestcontext.WithRequestID(context.Background(), "req-9")

		require.NoError(t, d.Dispatch(ctx, []models.Payload{payload("API-1"), payload("API-2")}))

		require.Len(t, producer.records, 2)
		r := producer.records[0]
		assert.Equal(t, "verification.requests", r.Topic)
		assert.Equal(t, []byte("API-1"), r.Key)
		assert.Contains(t, r.Headers, kgo.RecordHeader{Key: HeaderKind, Value: []byte("identity_screening")})
		assert.Contains(t, r.Headers, kgo.RecordHeader{Key: HeaderRequestID, Value: []byte("req-9")})

		var decoded models.Payload
		require.NoError(t, json.Unmarshal(r.Value, &decoded))
		assert.Equal(t, payload("API-1"), decoded)
	})

	t.Run("produce errors are returned", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("not leader")}
		d := NewKafkaDispatcher(producer, "t", discard)

		err := d.Dispatch(context.Background(), []models.Payload{payload("API-1")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not leader")
	})
}

func TestLogDispatcher(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDispatcher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, d.Dispatch(context.Background(), []models.Payload{payload("API-7")}))
	assert.Contains(t, buf.String(), `"reference":"API-7"`)
	assert.Contains(t, buf.String(), `"tasks":["identity","screening"]`)
}

func TestFallbackDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("primary success never touches fallback", func(t *testing.T) {
		primary, fallback := &countingDispatcher{}, &countingDispatcher{}
		d := NewFallbackDispatcher(primary, fallback, circuit.New("dispatch"), discard)

		require.NoError(t, d.Dispatch(ctx, []models.Payload{payload("API-1")}))
		assert.Equal(t, 1, primary.calls)
		assert.Zero(t, fallback.calls)
	})

	t.Run("failures surface until the breaker opens", func(t *testing.T) {
		primary := &countingDispatcher{err: errors.New("broker down")}
		fallback := &countingDispatcher{}
		breaker := circuit.New("dispatch", circuit.WithFailureThreshold(2))
		d := NewFallbackDispatcher(primary, fallback, breaker, discard)

		require.Error(t, d.Dispatch(ctx, []models.Payload{payload("API-1")}))
		assert.Zero(t, fallback.calls)

		require.NoError(t, d.Dispatch(ctx, []models.Payload{payload("API-2")}))
		assert.True(t, breaker.IsOpen())
		require.Len(t, fallback.got, 1)
		assert.Equal(t, "API-2", fallback.got[0].Reference)
	})

	t.Run("breaker closes after primary recovers", func(t *testing.T) {
		primary := &countingDispatcher{err: errors.New("broker down")}
		breaker := circuit.New("dispatch", circuit.WithFailureThreshold(1), circuit.WithSuccessThreshold(2), circuit.WithCooldown(0))
		d := NewFallbackDispatcher(primary, &countingDispatcher{}, breaker, discard)

		require.NoError(t, d.Dispatch(ctx, nil))
		primary.err = nil
		require.NoError(t, d.Dispatch(ctx, nil))
		assert.True(t, breaker.IsOpen())
		require.NoError(t, d.Dispatch(ctx, nil))
		assert.False(t, breaker.IsOpen())
	})

	t.Run("fallback failure returns the primary error", func(t *testing.T) {
		primaryErr := errors.New("broker down")
		primary := &countingDispatcher{err: primaryErr}
		fallback := &countingDispatcher{err: errors.New("redis down")}
		d := NewFallbackDispatcher(primary, fallback, circuit.New("dispatch", circuit.WithFailureThreshold(1)), discard)

		assert.ErrorIs(t, d.Dispatch(ctx, nil), primaryErr)
	})

	t.Run("stalled primary still spools on a live context", func(t *testing.T) {
		primary, fallback := &stalledDispatcher{}, &contextRecorder{}
		breaker := circuit.New("dispatch", circuit.WithFailureThreshold(1))
		d := NewFallbackDispatcher(primary, fallback, breaker, discard)

		callCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		require.NoError(t, d.Dispatch(callCtx, []models.Payload{payload("API-1")}))
		assert.Equal(t, []bool{true}, fallback.live)
		assert.True(t, breaker.IsOpen())
	})

	t.Run("open breaker skips the primary until the cooldown passes", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		primary := &countingDispatcher{err: errors.New("broker down")}
		fallback := &countingDispatcher{}
		breaker := circuit.New("dispatch",
			circuit.WithFailureThreshold(1),
			circuit.WithSuccessThreshold(1),
			circuit.WithClock(func() time.Time { return now }),
		)
		d := NewFallbackDispatcher(primary, fallback, breaker, discard)

		require.NoError(t, d.Dispatch(ctx, []models.Payload{payload("API-1")}))
		require.NoError(t, d.Dispatch(ctx, []models.Payload{payload("API-2")}))
		assert.Equal(t, 1, primary.calls)
		assert.Equal(t, 2, fallback.calls)

		now = now.Add(31 * time.Second)
		primary.err = nil
		require.NoError(t, d.Dispatch(ctx, []models.Payload{payload("API-3")}))
		assert.Equal(t, 2, primary.calls)
		assert.Equal(t, 2, fallback.calls)
		assert.False(t, breaker.IsOpen())
	})

	t.Run("no fallback configured", func(t *testing.T) {
		primary := &countingDispatcher{err: errors.New("broker down")}
		d := NewFallbackDispatcher(primary, nil, circuit.New("dispatch", circuit.WithFailureThreshold(1)), discard)

		assert.Error(t, d.Dispatch(ctx, nil))
	})
}
