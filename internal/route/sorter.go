// Package route orders an unordered set of tickets into the single journey
// they describe and renders that journey as travel instructions.
package route

import "itinerary/internal/domain/ticket"

// Sort returns tickets in travel order. The tickets must form exactly one
// simple path: every location departs at most once, exactly one location is
// departed from without being arrived at, and every ticket is reachable from it.
//
// A single ticket is returned as-is without validation.
// The input slice is not modified.
func Sort(tickets []ticket.Ticket) ([]ticket.Ticket, error) {
	switch len(tickets) {
	case 0:
		return nil, ErrNoTickets
	case 1:
		return []ticket.Ticket{tickets[0]}, nil
	}

	next := make(map[string]int, len(tickets)) // from -> index into tickets
	arrivals := make(map[string]struct{}, len(tickets))
	var departures []string

	for i, t := range tickets {
		if _, dup := next[t.From]; dup {
			return nil, &SortError{Kind: KindDuplicateOrigin, Location: t.From}
		}
		next[t.From] = i
		departures = append(departures, t.From)
		arrivals[t.To] = struct{}{}
	}

	var starts []string
	for _, from := range departures {
		if _, ok := arrivals[from]; !ok {
			starts = append(starts, from)
		}
	}

	switch {
	case len(starts) == 0:
		return nil, ErrNoStartingPoint
	case len(starts) > 1:
		return nil, ErrMultipleStartingPoints
	}

	sorted := make([]ticket.Ticket, 0, len(tickets))
	used := make([]bool, len(tickets))

	for loc := starts[0]; ; {
		i, ok := next[loc]
		if !ok {
			break
		}
		if used[i] {
			return nil, ErrCircularRoute
		}
		used[i] = true
		sorted = append(sorted, tickets[i])
		loc = tickets[i].To
	}

	if len(sorted) != len(tickets) {
		return nil, ErrDisconnectedRoute
	}

	return sorted, nil
}
