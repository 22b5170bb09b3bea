package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"itinerary/internal/config"
	domainEvent "itinerary/internal/domain/event"
	"itinerary/internal/infrastructure/kafka"
	"itinerary/internal/infrastructure/nats"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print ItineraryCreated events from the configured broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr())
			out := cmd.OutOrStdout()

			switch cfg.Events.Driver {
			case config.DriverKafka:
				return watchKafka(cmd.Context(), cfg, out, logger)
			case config.DriverNATS:
				return watchNATS(cmd.Context(), cfg, out, logger)
			default:
				return fmt.Errorf("events driver is %q: no events are published, set events.driver to kafka or nats", cfg.Events.Driver)
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	return cmd
}

func watchKafka(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.Topic,
		GroupID:     cfg.Kafka.GroupID,
		StartOffset: cfg.Kafka.StartOffset,
	})
	defer consumer.Close()

	logger.Info("watching", "topic", cfg.Kafka.Topic, "group_id", cfg.Kafka.GroupID)

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("failed to fetch message", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		printEvent(out, msg.Value, logger)

		if err := consumer.CommitMessages(ctx, msg); err != nil {
			logger.Error("failed to commit kafka message", "error", err)
		}
	}
}

func watchNATS(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	sub, err := nats.NewSubscriber(nats.Config{
		URL:           cfg.NATS.URL,
		SubjectPrefix: cfg.NATS.SubjectPrefix,
		Name:          cfg.App.Name + "-watch",
	}, logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	logger.Info("watching", "subject", sub.Subject())

	return sub.Subscribe(ctx, func(data []byte) {
		printEvent(out, data, logger)
	})
}

// printEvent writes one line per ItineraryCreated envelope. Other event
// types are ignored.
func printEvent(out io.Writer, data []byte, logger *slog.Logger) {
	var ev domainEvent.Message
	if err := json.Unmarshal(data, &ev); err != nil {
		logger.Warn("skipping malformed envelope", "error", err)
		return
	}
	if ev.Type != domainEvent.TypeItineraryCreated {
		return
	}

	var p domainEvent.ItineraryCreated
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		logger.Warn("skipping malformed payload", "event_id", ev.ID, "error", err)
		return
	}
	fmt.Fprintf(out, "%s  %s  %d ticket(s)  %s -> %s\n",
		p.CreatedAt.Format(time.RFC3339), p.ItineraryID, p.TicketCount, p.Origin, p.Destination)
}
