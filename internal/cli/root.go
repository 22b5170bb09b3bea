// Package cli implements the itinerary command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var debugFlag bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "itinerary",
		Short:         "Sort travel tickets and follow itinerary events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&debugFlag, "debug", "v", false, "Enable debug logs")

	root.AddCommand(newSortCmd(), newWatchCmd())
	return root
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if debugFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
