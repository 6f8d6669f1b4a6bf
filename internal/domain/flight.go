package domain

import (
	"fmt"
	"strings"
	"time"
)

type Flight struct {
	ID             string
	DepartureTime  time.Time
	Destination    string
	AirplaneID     string
	Airplane       Airplane
	BookingsCount  int
	AvailableSeats int
}

// HasSeats reports whether one more booking fits on the flight.
func (f Flight) HasSeats() bool {
	return f.BookingsCount < f.Airplane.Capacity
}

// departureLayouts lists accepted departure formats, most specific first.
// The HTML datetime-local input posts values without seconds or zone.
var departureLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDeparture parses a departure timestamp. Zoned values are converted to UTC,
// naive values are taken as UTC.
func ParseDeparture(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range departureLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported departure format %q", raw)
}
