package outbox

import (
	"context"
	"time"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
)

type Event struct {
	ID            string    `json:"id"`
	EventType     string    `json:"event_type"`
	Payload       []byte    `json:"payload"`
	Status        Status    `json:"status"`
	CorrelationID string    `json:"correlation_id"`
	CausationID   string    `json:"causation_id"`
	Producer      string    `json:"producer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, event *Event) error
	// FetchBatch claims up to limit new events, oldest first, and marks them processing.
	FetchBatch(ctx context.Context, limit int) ([]*Event, error)
	MarkProcessed(ctx context.Context, ids []string) error
	// MarkFailed puts claimed events back to new so the next batch retries them.
	MarkFailed(ctx context.Context, ids []string) error
}
