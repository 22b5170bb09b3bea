package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	domainEvent "itinerary/internal/domain/event"
	"itinerary/internal/domain/outbox"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itinerary_outbox_events_published_total",
		Help: "The total number of outbox events published to the broker",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itinerary_outbox_publish_errors_total",
		Help: "The total number of failed publish attempts",
	})
)

// Publisher delivers one keyed message to a broker.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
	Destination() string
}

type PollerConfig struct {
	Interval    time.Duration
	BatchSize   int
	SendTimeout time.Duration
}

type OutboxPoller struct {
	outboxRepo outbox.Repository
	publisher  Publisher
	cfg        PollerConfig
	logger     *slog.Logger
}

func NewOutboxPoller(outboxRepo outbox.Repository, publisher Publisher, cfg PollerConfig, logger *slog.Logger) *OutboxPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OutboxPoller{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run polls until ctx is cancelled.
func (p *OutboxPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.logger.Info("outbox poller started", "destination", p.publisher.Destination(), "interval", p.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error("failed to process batch", "error", err)
			}
		}
	}
}

// ProcessBatch publishes one batch of pending events. Events that fail to
// publish are returned to the outbox for the next round.
func (p *OutboxPoller) ProcessBatch(ctx context.Context) error {
	events, err := p.outboxRepo.FetchBatch(ctx, p.cfg.BatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	var processedIDs []string
	var failedIDs []string

	for _, e := range events {
		key := []byte(e.CorrelationID)
		if len(key) == 0 {
			key = []byte(e.ID)
		}

		msg := domainEvent.Message{
			ID:            e.ID,
			Type:          e.EventType,
			CorrelationID: e.CorrelationID,
			CausationID:   e.CausationID,
			Producer:      e.Producer,
			OccurredAt:    e.CreatedAt.UTC(),
			Payload:       e.Payload,
		}

		value, err := json.Marshal(msg)
		if err != nil {
			p.logger.Error("failed to marshal event", "event_id", e.ID, "error", err)
			publishErrors.Inc()
			failedIDs = append(failedIDs, e.ID)
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, p.cfg.SendTimeout)
		err = p.publisher.Publish(sendCtx, key, value)
		cancel()

		if err != nil {
			p.logger.Error("failed to publish event", "event_id", e.ID, "error", err)
			publishErrors.Inc()
			failedIDs = append(failedIDs, e.ID)
			continue
		}

		eventsPublished.Inc()
		processedIDs = append(processedIDs, e.ID)
	}

	if len(processedIDs) > 0 {
		if err := p.outboxRepo.MarkProcessed(ctx, processedIDs); err != nil {
			return err
		}
		p.logger.Debug("published outbox events", "count", len(processedIDs))
	}

	if len(failedIDs) > 0 {
		if err := p.outboxRepo.MarkFailed(ctx, failedIDs); err != nil {
			p.logger.Error("failed to mark events as failed", "error", err)
		}
	}

	return nil
}
