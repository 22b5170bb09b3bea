package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Subscriber receives the events Publisher sends. Core NATS keeps no
// history, so only events published while subscribed are seen.
type Subscriber struct {
	nc      *nats.Conn
	subject string
}

func NewSubscriber(cfg Config, logger *slog.Logger) (*Subscriber, error) {
	nc, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, subject: createdSubject(cfg)}, nil
}

func (s *Subscriber) Subject() string {
	return s.subject
}

// Subscribe calls handle for each event until ctx is cancelled.
func (s *Subscriber) Subscribe(ctx context.Context, handle func(data []byte)) error {
	ch := make(chan *nats.Msg, 64)
	sub, err := s.nc.ChanSubscribe(s.subject, ch)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	defer sub.Unsubscribe()

	return consume(ctx, ch, handle)
}

func consume(ctx context.Context, ch <-chan *nats.Msg, handle func(data []byte)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handle(msg.Data)
		}
	}
}

func (s *Subscriber) Close() error {
	if s.nc == nil {
		return nil
	}
	s.nc.Close()
	return nil
}
