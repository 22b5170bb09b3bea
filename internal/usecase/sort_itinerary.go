package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"itinerary/internal/domain/event"
	"itinerary/internal/domain/itinerary"
	"itinerary/internal/domain/outbox"
	"itinerary/internal/domain/ticket"
	"itinerary/internal/route"

	"github.com/google/uuid"
)

const producerName = "itinerary-service"

// SortItinerary orders tickets, renders them and stores the result.
type SortItinerary struct {
	repo       itinerary.Repository
	outboxRepo outbox.Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewSortItinerary builds the use case. A nil outboxRepo disables
// ItineraryCreated events.
func NewSortItinerary(repo itinerary.Repository, outboxRepo outbox.Repository, logger *slog.Logger) *SortItinerary {
	if logger == nil {
		logger = slog.Default()
	}
	return &SortItinerary{
		repo:       repo,
		outboxRepo: outboxRepo,
		logger:     logger,
		now:        time.Now,
	}
}

type SortItineraryParams struct {
	Tickets []ticket.Ticket
}

// Execute returns a *route.SortError when the tickets do not form a single
// journey. Nothing is stored in that case.
func (uc *SortItinerary) Execute(ctx context.Context, params SortItineraryParams) (*itinerary.Itinerary, error) {
	sorted, err := route.Sort(params.Tickets)
	if err != nil {
		var sortErr *route.SortError
		if errors.As(err, &sortErr) {
			sortResults.WithLabelValues(strings.ToLower(sortErr.Kind.String())).Inc()
		}
		uc.logger.Info("tickets rejected", "tickets", len(params.Tickets), "error", err)
		return nil, err
	}

	it := &itinerary.Itinerary{
		SortedTickets:     sorted,
		ReadableItinerary: route.Render(sorted),
		CreatedAt:         uc.now().UTC(),
	}

	id, err := uc.repo.Store(ctx, it)
	if err != nil {
		return nil, fmt.Errorf("store itinerary: %w", err)
	}
	it.ID = id

	if err := uc.enqueueCreated(ctx, it); err != nil {
		if _, delErr := uc.repo.Delete(ctx, id); delErr != nil {
			uc.logger.Error("failed to roll back itinerary", "itinerary_id", id, "error", delErr)
		}
		return nil, err
	}

	sortResults.WithLabelValues("ok").Inc()
	storedItineraries.Inc()
	uc.logger.Info("itinerary stored", "itinerary_id", id, "tickets", len(sorted))

	return it, nil
}

func (uc *SortItinerary) enqueueCreated(ctx context.Context, it *itinerary.Itinerary) error {
	if uc.outboxRepo == nil {
		return nil
	}

	payload, err := json.Marshal(event.ItineraryCreated{
		ItineraryID: it.ID,
		TicketCount: len(it.SortedTickets),
		Origin:      it.Origin(),
		Destination: it.Destination(),
		CreatedAt:   it.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal itinerary event: %w", err)
	}

	e := &outbox.Event{
		ID:            uuid.New().String(),
		EventType:     event.TypeItineraryCreated,
		Payload:       payload,
		Status:        outbox.StatusNew,
		CorrelationID: it.ID,
		Producer:      producerName,
		CreatedAt:     it.CreatedAt,
	}

	if err := uc.outboxRepo.Create(ctx, e); err != nil {
		return fmt.Errorf("enqueue itinerary event: %w", err)
	}
	return nil
}
