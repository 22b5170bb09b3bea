package route

import (
	"fmt"
	"strings"

	"itinerary/internal/domain/ticket"
)

const (
	startLine = "0. Start."
	lastLine  = "Last destination reached."
)

// Render turns tickets, already in travel order, into numbered instructions.
// The result always has len(tickets)+2 lines: a start line, one line per
// ticket and a closing line.
func Render(tickets []ticket.Ticket) []string {
	lines := make([]string, 0, len(tickets)+2)
	lines = append(lines, startLine)

	for i, t := range tickets {
		lines = append(lines, formatStep(i+1, t))
	}

	return append(lines, fmt.Sprintf("%d. %s", len(tickets)+1, lastLine))
}

func formatStep(step int, t ticket.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. ", step)

	switch t.Type {
	case ticket.Train:
		fmt.Fprintf(&b, "Board train %s, %s from %s to %s", t.Identifier, t.Details, t.From, t.To)
	case ticket.Airplane:
		fmt.Fprintf(&b, "From %s, board the flight %s to %s", t.From, t.Identifier, t.To)
		if t.Details != "" {
			b.WriteString(" " + t.Details)
		}
	case ticket.Bus:
		b.WriteString("Board the ")
		if t.Identifier != "" {
			b.WriteString(t.Identifier + " ")
		}
		fmt.Fprintf(&b, "bus from %s to %s", t.From, t.To)
		appendDetails(&b, t.Details)
	case ticket.Tram:
		fmt.Fprintf(&b, "Board the Tram %s from %s to %s", t.Identifier, t.From, t.To)
	case ticket.Boat:
		fmt.Fprintf(&b, "Board the boat %s from %s to %s", t.Identifier, t.From, t.To)
		appendDetails(&b, t.Details)
	case ticket.Taxi:
		fmt.Fprintf(&b, "Take taxi from %s to %s", t.From, t.To)
		appendDetails(&b, t.Details)
	default:
		fmt.Fprintf(&b, "Travel by %s from %s to %s", t.Type, t.From, t.To)
	}

	line := strings.Join(strings.Fields(b.String()), " ")
	if !strings.HasSuffix(line, ".") {
		line += "."
	}
	return line
}

func appendDetails(b *strings.Builder, details string) {
	if details != "" {
		b.WriteString(". " + details)
	}
}
