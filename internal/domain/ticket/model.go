package ticket

// Type is the transit mode printed on a ticket.
type Type string

const (
	Train    Type = "train"
	Airplane Type = "airplane"
	Bus      Type = "bus"
	Boat     Type = "boat"
	Taxi     Type = "taxi"
	Tram     Type = "tram"
)

// Types returns every supported transit mode.
func Types() []Type {
	return []Type{Train, Airplane, Bus, Boat, Taxi, Tram}
}

func (t Type) Valid() bool {
	switch t {
	case Train, Airplane, Bus, Boat, Taxi, Tram:
		return true
	}
	return false
}

// Ticket is a single directed hop between two locations.
// Locations are compared verbatim, including case and whitespace.
type Ticket struct {
	Type       Type   `json:"type"`
	From       string `json:"from"`
	To         string `json:"to"`
	Identifier string `json:"identifier,omitempty"` // flight/train/bus number
	Details    string `json:"details,omitempty"`    // seat, platform, gate
}
