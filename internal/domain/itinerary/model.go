package itinerary

import (
	"context"
	"time"

	"itinerary/internal/domain/ticket"
)

// Itinerary is an ordered, validated journey together with its rendered form.
// It is immutable once stored.
type Itinerary struct {
	ID                string          `json:"id"`
	SortedTickets     []ticket.Ticket `json:"sortedTickets"`
	ReadableItinerary []string        `json:"readableItinerary"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Clone returns a copy that shares no slices with i.
func (i *Itinerary) Clone() *Itinerary {
	if i == nil {
		return nil
	}
	c := *i
	c.SortedTickets = append([]ticket.Ticket(nil), i.SortedTickets...)
	c.ReadableItinerary = append([]string(nil), i.ReadableItinerary...)
	return &c
}

// Origin is the departure location of the first ticket.
func (i *Itinerary) Origin() string {
	if len(i.SortedTickets) == 0 {
		return ""
	}
	return i.SortedTickets[0].From
}

// Destination is the arrival location of the last ticket.
func (i *Itinerary) Destination() string {
	if len(i.SortedTickets) == 0 {
		return ""
	}
	return i.SortedTickets[len(i.SortedTickets)-1].To
}

type Repository interface {
	// Store assigns a new ID to it, retains a copy and returns the ID.
	// Any ID already set on it is ignored.
	Store(ctx context.Context, it *Itinerary) (string, error)
	// GetByID returns nil, nil when no itinerary has the given ID.
	GetByID(ctx context.Context, id string) (*Itinerary, error)
	GetAll(ctx context.Context) ([]*Itinerary, error)
	Delete(ctx context.Context, id string) (bool, error)
}
