package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"itinerary/internal/domain/outbox"
)

// OutboxRepository is a process-local outbox. Processed events are dropped
// instead of kept, so it only holds events still waiting to be published.
type OutboxRepository struct {
	mu     sync.Mutex
	events map[string]*outbox.Event
	now    func() time.Time
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{
		events: make(map[string]*outbox.Event),
		now:    time.Now,
	}
}

func (r *OutboxRepository) Create(_ context.Context, e *outbox.Event) error {
	if e == nil || e.ID == "" {
		return fmt.Errorf("insert outbox event: missing id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[e.ID]; exists {
		return fmt.Errorf("insert outbox event: duplicate id %s", e.ID)
	}

	c := *e
	c.Payload = append([]byte(nil), e.Payload...)
	if c.Status == "" {
		c.Status = outbox.StatusNew
	}
	if c.Producer == "" {
		c.Producer = "unknown"
	}
	c.UpdatedAt = r.now()
	r.events[c.ID] = &c

	return nil
}

func (r *OutboxRepository) FetchBatch(_ context.Context, limit int) ([]*outbox.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []*outbox.Event
	for _, e := range r.events {
		if e.Status == outbox.StatusNew {
			pending = append(pending, e)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	claimed := make([]*outbox.Event, 0, len(pending))
	for _, e := range pending {
		e.Status = outbox.StatusProcessing
		e.UpdatedAt = r.now()

		c := *e
		claimed = append(claimed, &c)
	}

	return claimed, nil
}

func (r *OutboxRepository) MarkProcessed(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.events, id)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if e, ok := r.events[id]; ok {
			e.Status = outbox.StatusNew
			e.UpdatedAt = r.now()
		}
	}
	return nil
}

// Pending counts events not yet published, including claimed ones.
func (r *OutboxRepository) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
