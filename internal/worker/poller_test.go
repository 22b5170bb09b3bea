package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	domainEvent "itinerary/internal/domain/event"
	"itinerary/internal/domain/outbox"
	"itinerary/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	values [][]byte
	failOn map[string]bool
}

func (p *recordingPublisher) Publish(_ context.Context, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failOn[string(key)] {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, string(key))
	p.values = append(p.values, value)
	return nil
}

func (p *recordingPublisher) Destination() string { return "test" }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func enqueue(t *testing.T, repo *memory.OutboxRepository, id, correlationID string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &outbox.Event{
		ID:            id,
		EventType:     domainEvent.TypeItineraryCreated,
		Payload:       []byte(`{"itinerary_id":"` + correlationID + `"}`),
		CorrelationID: correlationID,
		Producer:      "itinerary-service",
		CreatedAt:     at,
	}))
}

func TestOutboxPoller_PublishesEnvelope(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	pub := &recordingPublisher{}
	at := time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)

	enqueue(t, repo, "evt-1", "itinerary_1", at)

	p := NewOutboxPoller(repo, pub, PollerConfig{}, discard)
	require.NoError(t, p.ProcessBatch(ctx))

	require.Equal(t, []string{"itinerary_1"}, pub.published())
	assert.Equal(t, 0, repo.Pending())

	var msg domainEvent.Message
	require.NoError(t, json.Unmarshal(pub.values[0], &msg))
	assert.Equal(t, "evt-1", msg.ID)
	assert.Equal(t, domainEvent.TypeItineraryCreated, msg.Type)
	assert.Equal(t, "itinerary_1", msg.CorrelationID)
	assert.True(t, at.Equal(msg.OccurredAt))
	assert.JSONEq(t, `{"itinerary_id":"itinerary_1"}`, string(msg.Payload))
}

func TestOutboxPoller_RetriesFailedEvents(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	pub := &recordingPublisher{failOn: map[string]bool{"itinerary_bad": true}}
	now := time.Now()

	enqueue(t, repo, "evt-1", "itinerary_good", now)
	enqueue(t, repo, "evt-2", "itinerary_bad", now.Add(time.Millisecond))

	p := NewOutboxPoller(repo, pub, PollerConfig{BatchSize: 10}, discard)
	require.NoError(t, p.ProcessBatch(ctx))

	assert.Equal(t, []string{"itinerary_good"}, pub.published())
	assert.Equal(t, 1, repo.Pending())

	pub.mu.Lock()
	pub.failOn = nil
	pub.mu.Unlock()

	require.NoError(t, p.ProcessBatch(ctx))
	assert.Equal(t, []string{"itinerary_good", "itinerary_bad"}, pub.published())
	assert.Equal(t, 0, repo.Pending())
}

func TestOutboxPoller_RespectsBatchSize(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	pub := &recordingPublisher{}
	now := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		enqueue(t, repo, "evt-"+id, "itinerary_"+id, now.Add(time.Duration(i)*time.Millisecond))
	}

	p := NewOutboxPoller(repo, pub, PollerConfig{BatchSize: 2}, discard)
	require.NoError(t, p.ProcessBatch(ctx))
	assert.Equal(t, []string{"itinerary_a", "itinerary_b"}, pub.published())
	assert.Equal(t, 1, repo.Pending())
}

func TestOutboxPoller_RunStopsOnCancel(t *testing.T) {
	repo := memory.NewOutboxRepository()
	pub := &recordingPublisher{}
	enqueue(t, repo, "evt-1", "itinerary_1", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	p := NewOutboxPoller(repo, pub, PollerConfig{Interval: 10 * time.Millisecond}, discard)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return len(pub.published()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
