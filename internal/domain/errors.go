package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a domain error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindDuplicate
	KindCapacity
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDuplicate:
		return "duplicate"
	case KindCapacity:
		return "capacity"
	default:
		return "internal"
	}
}

// Error is a user-facing failure. Two errors are equal under errors.Is when their codes match,
// so an error carrying a detailed message still matches its sentinel.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying msg.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg}
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrDepartureRequired   = newError(KindValidation, "departure_required", "departure_datetime is required")
	ErrDestinationRequired = newError(KindValidation, "destination_required", "destination is required")
	ErrAirplaneRequired    = newError(KindValidation, "airplane_required", "airplane_id is required")
	ErrInvalidDeparture    = newError(KindValidation, "invalid_departure", "departure_datetime has an unsupported format")
	ErrPassengerRequired   = newError(KindValidation, "passenger_required", "passenger_name is required")
	ErrNewFlightRequired   = newError(KindValidation, "new_flight_required", "new_flight_id is required")
	ErrAirplaneNameEmpty   = newError(KindValidation, "airplane_name_required", "airplane name is required")
	ErrInvalidCapacity     = newError(KindValidation, "invalid_capacity", "capacity must be a positive integer")
	ErrInvalidRequestBody  = newError(KindValidation, "invalid_request_body", "invalid request body")

	ErrAirplaneNotFound = newError(KindNotFound, "airplane_not_found", "airplane not found")
	ErrFlightNotFound   = newError(KindNotFound, "flight_not_found", "flight not found")
	ErrBookingNotFound  = newError(KindNotFound, "booking_not_found", "booking not found")

	ErrFlightSlotTaken     = newError(KindConflict, "flight_slot_taken", "a flight with this departure and destination already exists")
	ErrFlightHasBookings   = newError(KindConflict, "flight_has_bookings", "flight has bookings")
	ErrTimeSlotBooked      = newError(KindConflict, "time_slot_booked", "passenger already has a booking on another flight at this time")
	ErrDestinationMismatch = newError(KindConflict, "destination_mismatch", "booking can only be transferred to a flight with the same destination")
	ErrAlreadyBooked       = newError(KindDuplicate, "already_booked", "passenger already has a booking on this flight")
	ErrNoSeatsAvailable    = newError(KindCapacity, "no_seats_available", "no seats available on this flight")
	ErrTransferNotApplied  = newError(KindInternal, "transfer_not_applied", "failed to update booking")
	ErrStoreUnavailable    = newError(KindInternal, "store_unavailable", "store unavailable")
)

// KindOf returns the kind of err, KindInternal for anything that is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MaxListedPassengers bounds the names quoted when a flight cannot be deleted.
const MaxListedPassengers = 5

// FlightHasBookings builds the delete-flight conflict naming up to five passengers.
func FlightHasBookings(total int, names []string) *Error {
	msg := fmt.Sprintf("cannot delete a flight with bookings (%d bookings)", total)
	if len(names) > MaxListedPassengers {
		names = names[:MaxListedPassengers]
	}
	if len(names) > 0 {
		msg += ". Passengers: " + strings.Join(names, ", ")
		if total > MaxListedPassengers {
			msg += fmt.Sprintf(" and %d more", total-MaxListedPassengers)
		}
	}
	return ErrFlightHasBookings.WithMessage(msg)
}

// DestinationMismatch builds the transfer conflict naming both destinations.
func DestinationMismatch(current, target string) *Error {
	return ErrDestinationMismatch.WithMessage(fmt.Sprintf(
		"booking can only be transferred to a flight with the same destination. Current: %s, new: %s",
		current, target,
	))
}

