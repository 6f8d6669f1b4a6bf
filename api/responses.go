package api

import (
	"time"

	"github.com/Domenick1991/aviabooking/internal/domain"
)

// departureLayout matches the naive ISO timestamps the store holds.
const departureLayout = "2006-01-02T15:04:05"

type airplaneResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type flightResponse struct {
	ID                string           `json:"id"`
	DepartureDatetime string           `json:"departure_datetime"`
	Destination       string           `json:"destination"`
	AirplaneID        string           `json:"airplane_id"`
	AirplaneName      string           `json:"airplane_name"`
	Capacity          int              `json:"capacity"`
	BookingsCount     int              `json:"bookings_count"`
	AvailableSeats    int              `json:"available_seats"`
	Airplane          airplaneResponse `json:"airplane"`
}

type bookingResponse struct {
	ID            string `json:"id"`
	PassengerName string `json:"passenger_name"`
	FlightID      string `json:"flight_id"`
}

type createdResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type transferResponse struct {
	Message       string `json:"message"`
	BookingID     string `json:"booking_id"`
	OldFlightID   string `json:"old_flight_id"`
	NewFlightID   string `json:"new_flight_id"`
	PassengerName string `json:"passenger_name"`
}

type statsResponse struct {
	AirplanesCount int `json:"airplanes_count"`
	FlightsCount   int `json:"flights_count"`
	BookingsCount  int `json:"bookings_count"`
}

type statusResponse struct {
	Status   string         `json:"status"`
	Database string         `json:"database"`
	Stats    *statsResponse `json:"stats,omitempty"`
}

func formatDeparture(t time.Time) string {
	return t.UTC().Format(departureLayout)
}

func toAirplaneResponse(a domain.Airplane) airplaneResponse {
	return airplaneResponse{ID: a.ID, Name: a.Name, Capacity: a.Capacity}
}

func toFlightResponses(flights []domain.Flight) []flightResponse {
	out := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, flightResponse{
			ID:                f.ID,
			DepartureDatetime: formatDeparture(f.DepartureTime),
			Destination:       f.Destination,
			AirplaneID:        f.AirplaneID,
			AirplaneName:      f.Airplane.Name,
			Capacity:          f.Airplane.Capacity,
			BookingsCount:     f.BookingsCount,
			AvailableSeats:    f.AvailableSeats,
			Airplane:          toAirplaneResponse(f.Airplane),
		})
	}
	return out
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingResponse{ID: b.ID, PassengerName: b.PassengerName, FlightID: b.FlightID})
	}
	return out
}
