package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
)

const keyHeader = "Itinerary-Id"

type Config struct {
	URL           string
	SubjectPrefix string
	Name          string
}

// Publisher sends itinerary events to <prefix>.created.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	nc, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc, subject: createdSubject(cfg)}, nil
}

func connect(cfg Config, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", cfg.URL, err)
	}
	return nc, nil
}

func createdSubject(cfg Config) string {
	return Subject(cfg.SubjectPrefix, "created")
}

func (p *Publisher) Publish(ctx context.Context, key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = value
	if len(key) > 0 {
		msg.Header.Set(keyHeader, string(key))
	}

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

func (p *Publisher) Destination() string {
	return "nats:" + p.subject
}

func (p *Publisher) Close() error {
	if p.nc == nil {
		return nil
	}
	err := p.nc.Drain()
	p.nc.Close()
	return err
}

// Subject joins tokens into a NATS subject, replacing characters that are
// not allowed inside a token.
func Subject(tokens ...string) string {
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")

	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = repl.Replace(strings.TrimSpace(t))
		if t == "" {
			t = "_"
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, ".")
}
