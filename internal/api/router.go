package api

import (
	"log/slog"
	"net/http"
	"time"

	"itinerary/internal/api/middleware"

	"github.com/go-chi/chi/v5"
	ChiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	// RedisClient enables Idempotency-Key handling on POST /itinerary/sort.
	RedisClient    *redis.Client
	IdempotencyTTL time.Duration
	// MaxBodyBytes caps request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// DefaultMaxBodyBytes matches the usual 100kb JSON body limit.
const DefaultMaxBodyBytes int64 = 100 << 10

func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()

	r.Use(ChiMiddleware.RequestID)
	r.Use(ChiMiddleware.Logger)
	r.Use(ChiMiddleware.Recoverer)
	r.Use(ChiMiddleware.RequestSize(maxBody))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/itinerary", func(r chi.Router) {
		sort := r.With()
		if cfg.RedisClient != nil {
			sort = r.With(middleware.Idempotency(cfg.RedisClient, cfg.IdempotencyTTL, logger))
		}
		sort.Post("/sort", h.SortTickets)

		r.Get("/", h.ListItineraries)
		r.Get("/{id}", h.GetItinerary)
		// Not part of the original API; exposes the store's delete.
		r.Delete("/{id}", h.DeleteItinerary)
	})

	r.Handle("/metrics", promhttp.Handler())

	logger.Info("registered routes",
		"idempotency", cfg.RedisClient != nil,
		"routes", []string{"POST /itinerary/sort", "GET /itinerary", "GET /itinerary/{id}", "DELETE /itinerary/{id}", "GET /metrics"})

	return r
}
