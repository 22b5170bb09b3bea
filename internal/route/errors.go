package route

import "fmt"

// Kind classifies why a ticket set could not be ordered.
type Kind int

const (
	KindNoTickets Kind = iota + 1
	KindNoStartingPoint
	KindMultipleStartingPoints
	KindCircularRoute
	KindDisconnectedRoute
	KindDuplicateOrigin
)

func (k Kind) String() string {
	switch k {
	case KindNoTickets:
		return "NO_TICKETS"
	case KindNoStartingPoint:
		return "NO_STARTING_POINT"
	case KindMultipleStartingPoints:
		return "MULTIPLE_STARTING_POINTS"
	case KindCircularRoute:
		return "CIRCULAR_ROUTE"
	case KindDisconnectedRoute:
		return "DISCONNECTED_ROUTE"
	case KindDuplicateOrigin:
		return "DUPLICATE_ORIGIN"
	}
	return "UNKNOWN"
}

// SortError reports invalid input to Sort. It is never transient.
type SortError struct {
	Kind Kind
	// Location is the offending location, set for KindDuplicateOrigin.
	Location string
}

var (
	ErrNoTickets              = &SortError{Kind: KindNoTickets}
	ErrNoStartingPoint        = &SortError{Kind: KindNoStartingPoint}
	ErrMultipleStartingPoints = &SortError{Kind: KindMultipleStartingPoints}
	ErrCircularRoute          = &SortError{Kind: KindCircularRoute}
	ErrDisconnectedRoute      = &SortError{Kind: KindDisconnectedRoute}
	ErrDuplicateOrigin        = &SortError{Kind: KindDuplicateOrigin}
)

func (e *SortError) Error() string {
	switch e.Kind {
	case KindNoTickets:
		return "No tickets provided"
	case KindNoStartingPoint:
		return "No valid starting point found - circular route detected"
	case KindMultipleStartingPoints:
		return "Multiple starting points found - disconnected routes detected"
	case KindCircularRoute:
		return "Circular route detected"
	case KindDisconnectedRoute:
		return "Disconnected route - some tickets cannot be reached"
	case KindDuplicateOrigin:
		if e.Location != "" {
			return fmt.Sprintf("Multiple tickets depart from %q - route is ambiguous", e.Location)
		}
		return "Multiple tickets depart from the same location - route is ambiguous"
	}
	return "Tickets cannot be sorted"
}

// Is matches any *SortError of the same kind, so errors.Is(err, ErrDuplicateOrigin)
// holds regardless of Location.
func (e *SortError) Is(target error) bool {
	t, ok := target.(*SortError)
	return ok && t.Kind == e.Kind
}
