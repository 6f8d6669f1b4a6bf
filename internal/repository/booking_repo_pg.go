package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error)
	PassengerNames(ctx context.Context, flightID string, limit int) ([]string, error)
	ExistsOnFlight(ctx context.Context, passenger, flightID string) (bool, error)
	ExistsAtDeparture(ctx context.Context, passenger string, departure time.Time, excludeFlightID string) (bool, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id string) (*domain.Booking, error)
	MoveToFlight(ctx context.Context, bookingID, flightID string) (int64, error)
	LockPassenger(ctx context.Context, passenger string) error
}

const (
	listFlightBookingsQuery = `SELECT id::text, passenger_name, flight_id::text FROM bookings WHERE flight_id = $1 ORDER BY passenger_name`
	passengerNamesQuery     = `SELECT passenger_name FROM bookings WHERE flight_id = $1 ORDER BY passenger_name LIMIT $2`
	bookedOnFlightQuery     = `SELECT EXISTS (SELECT 1 FROM bookings WHERE passenger_name = $1 AND flight_id = $2)`

	bookedAtDepartureQuery = `
SELECT EXISTS (
	SELECT 1 FROM bookings b
	JOIN flights f ON f.id = b.flight_id
	WHERE b.passenger_name = $1 AND f.departure_datetime = $2 AND ($3 = '' OR b.flight_id::text <> $3)
)`

	lockBookingQuery   = `SELECT id::text, passenger_name, flight_id::text FROM bookings WHERE id = $1 FOR UPDATE`
	insertBookingStmt  = `INSERT INTO bookings (id, passenger_name, flight_id) VALUES ($1, $2, $3)`
	deleteBookingStmt  = `DELETE FROM bookings WHERE id = $1 RETURNING id::text, passenger_name, flight_id::text`
	moveBookingStmt    = `UPDATE bookings SET flight_id = $1 WHERE id = $2`
	lockPassengerQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`
)

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).Query(ctx, listFlightBookingsQuery, flightID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.PassengerName, &b.FlightID); err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) PassengerNames(ctx context.Context, flightID string, limit int) ([]string, error) {
	rows, err := conn(ctx, r.db).Query(ctx, passengerNamesQuery, flightID, limit)
	if err != nil {
		return nil, fmt.Errorf("list passenger names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list passenger names: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *PGBookingRepository) ExistsOnFlight(ctx context.Context, passenger, flightID string) (bool, error) {
	return exists(ctx, r.db, "check booking on flight", bookedOnFlightQuery, passenger, flightID)
}

// ExistsAtDeparture reports whether passenger holds a booking on any flight departing at
// departure, ignoring bookings on excludeFlightID when it is set.
func (r *PGBookingRepository) ExistsAtDeparture(ctx context.Context, passenger string, departure time.Time, excludeFlightID string) (bool, error) {
	return exists(ctx, r.db, "check booking at departure", bookedAtDepartureQuery, passenger, departure, excludeFlightID)
}

func (r *PGBookingRepository) GetForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := conn(ctx, r.db).QueryRow(ctx, lockBookingQuery, id).Scan(&b.ID, &b.PassengerName, &b.FlightID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("lock booking: %w", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if _, err := conn(ctx, r.db).Exec(ctx, insertBookingStmt, booking.ID, booking.PassengerName, booking.FlightID); err != nil {
		return translate("create booking", err)
	}
	return nil
}

// Delete removes the booking and returns what was removed.
func (r *PGBookingRepository) Delete(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := conn(ctx, r.db).QueryRow(ctx, deleteBookingStmt, id).Scan(&b.ID, &b.PassengerName, &b.FlightID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("delete booking: %w", err)
	}
	return &b, nil
}

// MoveToFlight points the booking at flightID and returns the number of rows changed.
func (r *PGBookingRepository) MoveToFlight(ctx context.Context, bookingID, flightID string) (int64, error) {
	tag, err := conn(ctx, r.db).Exec(ctx, moveBookingStmt, flightID, bookingID)
	if err != nil {
		return 0, translate("move booking", err)
	}
	return tag.RowsAffected(), nil
}

// LockPassenger takes a transaction-scoped advisory lock on the passenger name. It must run
// inside WithTx.
func (r *PGBookingRepository) LockPassenger(ctx context.Context, passenger string) error {
	if _, err := conn(ctx, r.db).Exec(ctx, lockPassengerQuery, passenger); err != nil {
		return fmt.Errorf("lock passenger: %w", err)
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
