package route

import (
	"errors"
	"testing"

	"itinerary/internal/domain/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tk(typ ticket.Type, from, to string) ticket.Ticket {
	return ticket.Ticket{Type: typ, From: from, To: to}
}

func innsbruckTickets() []ticket.Ticket {
	return []ticket.Ticket{
		{Type: ticket.Airplane, From: "Innsbruck Airport", To: "Venice Airport", Identifier: "AA904", Details: "Gate 10, seat 18B"},
		{Type: ticket.Train, From: "St. Anton am Arlberg Bahnhof", To: "Innsbruck Hbf", Identifier: "RJX 765", Details: "Platform 3, Seat number 17C"},
		{Type: ticket.Tram, From: "Innsbruck Hbf", To: "Innsbruck Airport", Identifier: "S5"},
	}
}

func TestSort_OrdersChain(t *testing.T) {
	sorted, err := Sort(innsbruckTickets())
	require.NoError(t, err)
	require.Len(t, sorted, 3)

	assert.Equal(t, ticket.Train, sorted[0].Type)
	assert.Equal(t, ticket.Tram, sorted[1].Type)
	assert.Equal(t, ticket.Airplane, sorted[2].Type)
	assert.Equal(t, "St. Anton am Arlberg Bahnhof", sorted[0].From)
}

func TestSort_IndependentOfInputOrder(t *testing.T) {
	chain := []ticket.Ticket{
		tk(ticket.Train, "A", "B"),
		tk(ticket.Bus, "B", "C"),
		tk(ticket.Boat, "C", "D"),
		tk(ticket.Taxi, "D", "E"),
	}

	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	for _, p := range permutations {
		input := make([]ticket.Ticket, len(p))
		for i, idx := range p {
			input[i] = chain[idx]
		}

		sorted, err := Sort(input)
		require.NoError(t, err, "permutation %v", p)
		assert.Equal(t, chain, sorted, "permutation %v", p)

		for i := 1; i < len(sorted); i++ {
			assert.Equal(t, sorted[i-1].To, sorted[i].From)
		}
	}
}

func TestSort_DoesNotModifyInput(t *testing.T) {
	input := innsbruckTickets()
	before := append([]ticket.Ticket(nil), input...)

	_, err := Sort(input)
	require.NoError(t, err)
	assert.Equal(t, before, input)
}

func TestSort_SingleTicketBypassesValidation(t *testing.T) {
	tests := []struct {
		name string
		in   ticket.Ticket
	}{
		{name: "regular ticket", in: ticket.Ticket{Type: ticket.Train, From: "A", To: "B", Identifier: "T1"}},
		{name: "self loop", in: tk(ticket.Taxi, "A", "A")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted, err := Sort([]ticket.Ticket{tt.in})
			require.NoError(t, err)
			assert.Equal(t, []ticket.Ticket{tt.in}, sorted)
		})
	}
}

func TestSort_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tickets []ticket.Ticket
		want    *SortError
	}{
		{
			name:    "empty",
			tickets: nil,
			want:    ErrNoTickets,
		},
		{
			name:    "mutual cycle",
			tickets: []ticket.Ticket{tk(ticket.Train, "A", "B"), tk(ticket.Train, "B", "A")},
			want:    ErrNoStartingPoint,
		},
		{
			name:    "two disjoint chains",
			tickets: []ticket.Ticket{tk(ticket.Train, "A", "B"), tk(ticket.Train, "C", "D")},
			want:    ErrMultipleStartingPoints,
		},
		{
			name: "cycle entered mid walk",
			tickets: []ticket.Ticket{
				tk(ticket.Bus, "A", "B"),
				tk(ticket.Bus, "B", "C"),
				tk(ticket.Bus, "C", "B"),
			},
			want: ErrCircularRoute,
		},
		{
			name: "detached cycle island",
			tickets: []ticket.Ticket{
				tk(ticket.Train, "A", "B"),
				tk(ticket.Boat, "C", "D"),
				tk(ticket.Boat, "D", "C"),
			},
			want: ErrDisconnectedRoute,
		},
		{
			name: "self loop among others",
			tickets: []ticket.Ticket{
				tk(ticket.Taxi, "A", "A"),
				tk(ticket.Train, "B", "C"),
			},
			want: ErrDisconnectedRoute,
		},
		{
			name: "duplicate origin",
			tickets: []ticket.Ticket{
				tk(ticket.Train, "A", "B"),
				tk(ticket.Bus, "A", "C"),
				tk(ticket.Tram, "B", "D"),
			},
			want: ErrDuplicateOrigin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted, err := Sort(tt.tickets)
			require.Error(t, err)
			assert.Nil(t, sorted)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)

			var sortErr *SortError
			require.True(t, errors.As(err, &sortErr))
			assert.Equal(t, tt.want.Kind, sortErr.Kind)
		})
	}
}

func TestSort_DuplicateOriginNamesLocation(t *testing.T) {
	_, err := Sort([]ticket.Ticket{
		tk(ticket.Train, "Zurich HB", "Bern"),
		tk(ticket.Bus, "Zurich HB", "Basel"),
	})

	var sortErr *SortError
	require.True(t, errors.As(err, &sortErr))
	assert.Equal(t, "Zurich HB", sortErr.Location)
	assert.Contains(t, err.Error(), `"Zurich HB"`)
}

func TestSortError_Messages(t *testing.T) {
	assert.Equal(t, "No tickets provided", ErrNoTickets.Error())
	assert.Equal(t, "Circular route detected", ErrCircularRoute.Error())
	assert.Equal(t, "Disconnected route - some tickets cannot be reached", ErrDisconnectedRoute.Error())
	assert.Equal(t, "MULTIPLE_STARTING_POINTS", KindMultipleStartingPoints.String())
	assert.False(t, errors.Is(ErrCircularRoute, ErrNoStartingPoint))
}
