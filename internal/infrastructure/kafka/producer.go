package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config zero values fall back to 5 attempts and 10s timeouts.
type Config struct {
	Brokers      []string
	Topic        string
	MaxAttempts  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c
}

// Producer writes keyed messages to a single topic. Messages with the same
// key (the itinerary ID) land on the same partition.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg Config) *Producer {
	cfg = cfg.withDefaults()

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            cfg.MaxAttempts,
		ReadTimeout:            cfg.ReadTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: w}
}

// Publish blocks until the broker acknowledges the event or the writer
// runs out of attempts.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	msg := kafka.Message{Key: key, Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish itinerary event %s to %s: %w", key, p.writer.Topic, err)
	}
	return nil
}

func (p *Producer) Destination() string {
	return "kafka:" + p.writer.Topic
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
