package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"itinerary/internal/domain/ticket"
	"itinerary/internal/route"

	"github.com/spf13/cobra"
)

type sortOutput struct {
	SortedTickets     []ticket.Ticket `json:"sortedTickets"`
	ReadableItinerary []string        `json:"readableItinerary"`
}

func newSortCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort a ticket file and print the itinerary",
		Long: `Reads tickets as JSON, either a bare array or {"tickets": [...]},
from --file or stdin, and prints them in travel order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open tickets: %w", err)
				}
				defer f.Close()
				in = f
			}

			tickets, err := readTickets(in)
			if err != nil {
				return err
			}
			newLogger(cmd.ErrOrStderr()).Debug("tickets loaded", "count", len(tickets))

			sorted, err := route.Sort(tickets)
			if err != nil {
				return err
			}
			lines := route.Render(sorted)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sortOutput{SortedTickets: sorted, ReadableItinerary: lines})
			}
			for _, l := range lines {
				fmt.Fprintln(out, l)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Ticket file (default stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sorted tickets and lines as JSON")
	return cmd
}

func readTickets(r io.Reader) ([]ticket.Ticket, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tickets: %w", err)
	}

	var tickets []ticket.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		var wrapped struct {
			Tickets []ticket.Ticket `json:"tickets"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode tickets: %w", err)
		}
		tickets = wrapped.Tickets
	}

	for i, t := range tickets {
		if !t.Type.Valid() {
			return nil, fmt.Errorf("ticket %d: unknown transit type %q", i, t.Type)
		}
		if t.From == "" || t.To == "" {
			return nil, fmt.Errorf("ticket %d: from and to are required", i)
		}
	}
	return tickets, nil
}
