package event

import (
	"encoding/json"
	"time"
)

const TypeItineraryCreated = "ItineraryCreated"

// Message is the envelope published to the broker.
// Payload is kept as raw JSON produced by the originating service.
type Message struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	CorrelationID string          `json:"correlation_id"`
	CausationID   string          `json:"causation_id,omitempty"`
	Producer      string          `json:"producer"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// ItineraryCreated is the payload of a TypeItineraryCreated message.
type ItineraryCreated struct {
	ItineraryID string    `json:"itinerary_id"`
	TicketCount int       `json:"ticket_count"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"created_at"`
}
