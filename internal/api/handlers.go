package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"itinerary/internal/domain/ticket"
	"itinerary/internal/route"
	"itinerary/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	sortUC   *usecase.SortItinerary
	getUC    *usecase.GetItinerary
	listUC   *usecase.ListItineraries
	deleteUC *usecase.DeleteItinerary
	validate *requestValidator
	logger   *slog.Logger
}

func NewHandlers(
	sortUC *usecase.SortItinerary,
	getUC *usecase.GetItinerary,
	listUC *usecase.ListItineraries,
	deleteUC *usecase.DeleteItinerary,
	logger *slog.Logger,
) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		sortUC:   sortUC,
		getUC:    getUC,
		listUC:   listUC,
		deleteUC: deleteUC,
		validate: newRequestValidator(),
		logger:   logger,
	}
}

type ticketRequest struct {
	Type       string `json:"type" validate:"required,transit"`
	From       string `json:"from" validate:"required"`
	To         string `json:"to" validate:"required"`
	Identifier string `json:"identifier,omitempty"`
	Details    string `json:"details,omitempty"`
}

type sortTicketsRequest struct {
	Tickets []ticketRequest `json:"tickets" validate:"required,min=1,dive"`
}

func (req sortTicketsRequest) toTickets() []ticket.Ticket {
	tickets := make([]ticket.Ticket, len(req.Tickets))
	for i, t := range req.Tickets {
		tickets[i] = ticket.Ticket{
			Type:       ticket.Type(t.Type),
			From:       t.From,
			To:         t.To,
			Identifier: t.Identifier,
			Details:    t.Details,
		}
	}
	return tickets
}

func (h *Handlers) SortTickets(w http.ResponseWriter, r *http.Request) {
	var req sortTicketsRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.sortUC.Execute(r.Context(), usecase.SortItineraryParams{Tickets: req.toTickets()})
	if err != nil {
		var sortErr *route.SortError
		if errors.As(err, &sortErr) {
			writeError(w, http.StatusBadRequest, sortErr.Error())
			return
		}
		h.logger.Error("failed to sort tickets", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sort tickets")
		return
	}

	writeJSON(w, http.StatusCreated, it)
}

func (h *Handlers) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	it, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, it)
}

func (h *Handlers) ListItineraries(w http.ResponseWriter, r *http.Request) {
	all, err := h.listUC.Execute(r.Context())
	if err != nil {
		h.logger.Error("failed to list itineraries", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list itineraries")
		return
	}

	writeJSON(w, http.StatusOK, all)
}

func (h *Handlers) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.deleteUC.Execute(r.Context(), id); err != nil {
		h.writeLookupError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrItineraryNotFound) {
		writeError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	h.logger.Error("itinerary lookup failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to load itinerary")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
