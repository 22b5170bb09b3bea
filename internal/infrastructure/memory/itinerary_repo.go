package memory

import (
	"context"
	"fmt"
	"sync"

	"itinerary/internal/domain/itinerary"

	"github.com/google/uuid"
)

const idPrefix = "itinerary_"

// ItineraryRepository keeps itineraries for the lifetime of the process.
// Records are copied on the way in and out, so callers never share
// slices with the stored value.
type ItineraryRepository struct {
	mu    sync.RWMutex
	items map[string]*itinerary.Itinerary
	order []string
	newID func() (string, error)
}

type Option func(*ItineraryRepository)

// WithIDGenerator replaces the default UUIDv7-based generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(r *ItineraryRepository) {
		r.newID = gen
	}
}

func NewItineraryRepository(opts ...Option) *ItineraryRepository {
	r := &ItineraryRepository{
		items: make(map[string]*itinerary.Itinerary),
		newID: newItineraryID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// newItineraryID combines a millisecond timestamp with 74 random bits.
func newItineraryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return idPrefix + id.String(), nil
}

func (r *ItineraryRepository) Store(_ context.Context, it *itinerary.Itinerary) (string, error) {
	if it == nil {
		return "", fmt.Errorf("store itinerary: nil itinerary")
	}

	id, err := r.newID()
	if err != nil {
		return "", fmt.Errorf("generate itinerary id: %w", err)
	}

	rec := it.Clone()
	rec.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; exists {
		return "", fmt.Errorf("store itinerary: id %s already taken", id)
	}
	r.items[id] = rec
	r.order = append(r.order, id)

	return id, nil
}

func (r *ItineraryRepository) GetByID(_ context.Context, id string) (*itinerary.Itinerary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return it.Clone(), nil
}

// GetAll returns every stored itinerary in insertion order.
func (r *ItineraryRepository) GetAll(_ context.Context) ([]*itinerary.Itinerary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*itinerary.Itinerary, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.items[id].Clone())
	}
	return all, nil
}

func (r *ItineraryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)

	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Len reports how many itineraries are stored.
func (r *ItineraryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
