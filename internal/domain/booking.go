package domain

type Booking struct {
	ID            string
	PassengerName string
	FlightID      string
}

// Transfer describes a booking moved between flights.
type Transfer struct {
	BookingID     string
	PassengerName string
	OldFlightID   string
	NewFlightID   string
}
