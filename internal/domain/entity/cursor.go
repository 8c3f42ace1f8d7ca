package entity

// Direction is the airport schedule board being traversed
type Direction int

const (
	Arrivals Direction = iota
	Departures
)

func (d Direction) String() string {
	if d == Departures {
		return "departures"
	}
	return "arrivals"
}

// PaginationCursor is the private pagination state of one collector run
type PaginationCursor struct {
	Page int
	// OlderThan is the provider id of the last entry seen; empty on the first page
	OlderThan string
	// Timestamp is the scheduled departure (unix seconds) of the last entry seen, 0 if unknown
	Timestamp int64
	Direction Direction
}

// NewCursor returns a cursor positioned on the first page
func NewCursor(direction Direction) PaginationCursor {
	return PaginationCursor{Page: 1, Direction: direction}
}

// Advance moves the cursor to the next page. An empty lastID keeps the
// previous continuation token and a zero timestamp keeps the previous hint.
func (c *PaginationCursor) Advance(lastID string, timestamp int64) {
	c.Page++
	if lastID != "" {
		c.OlderThan = lastID
	}
	if timestamp != 0 {
		c.Timestamp = timestamp
	}
}
