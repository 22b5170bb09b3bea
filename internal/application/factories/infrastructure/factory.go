package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"itinerary/internal/config"
	"itinerary/internal/infrastructure/kafka"
	"itinerary/internal/infrastructure/nats"
	"itinerary/internal/infrastructure/redis"
	"itinerary/internal/worker"

	go_redis "github.com/redis/go-redis/v9"
)

const redisAttempts = 5

type closer interface {
	Close() error
}

// Factory builds external clients on first use and closes them together.
type Factory struct {
	cfg       *config.Config
	logger    *slog.Logger
	redisCli  *go_redis.Client
	publisher worker.Publisher
	closers   []closer
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Redis returns nil, nil when no Redis address is configured.
func (f *Factory) Redis(ctx context.Context) (*go_redis.Client, error) {
	if f.redisCli != nil || f.cfg.Redis.Addr == "" {
		return f.redisCli, nil
	}

	var client *go_redis.Client
	var err error

	for i := 0; i < redisAttempts; i++ {
		client, err = redis.NewClient(ctx, redis.Config{
			Addr:     f.cfg.Redis.Addr,
			Password: f.cfg.Redis.Password,
			DB:       f.cfg.Redis.DB,
		})
		if err == nil {
			break
		}
		f.logger.Warn("failed to connect to redis, retrying", "attempt", i+1, "max", redisAttempts, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to init redis after retries: %w", err)
	}

	f.redisCli = client
	f.closers = append(f.closers, client)
	return client, nil
}

// Publisher returns the broker selected by events.driver, or nil for "none".
func (f *Factory) Publisher() (worker.Publisher, error) {
	if f.publisher != nil {
		return f.publisher, nil
	}

	switch f.cfg.Events.Driver {
	case config.DriverKafka:
		p := kafka.NewProducer(kafka.Config{
			Brokers:      f.cfg.Kafka.Brokers,
			Topic:        f.cfg.Kafka.Topic,
			MaxAttempts:  f.cfg.Kafka.MaxAttempts,
			ReadTimeout:  f.cfg.Kafka.ReadTimeout,
			WriteTimeout: f.cfg.Kafka.WriteTimeout,
		})
		f.publisher = p
		f.closers = append(f.closers, p)
	case config.DriverNATS:
		p, err := nats.NewPublisher(nats.Config{
			URL:           f.cfg.NATS.URL,
			SubjectPrefix: f.cfg.NATS.SubjectPrefix,
			Name:          f.cfg.App.Name,
		}, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init nats: %w", err)
		}
		f.publisher = p
		f.closers = append(f.closers, p)
	case config.DriverNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", f.cfg.Events.Driver)
	}

	return f.publisher, nil
}

// Close releases clients in reverse creation order.
func (f *Factory) Close() {
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil {
			f.logger.Warn("failed to close client", "error", err)
		}
	}
	f.closers = nil
}
