package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Flight, error)
	Exists(ctx context.Context, id string) (bool, error)
	SlotTaken(ctx context.Context, departure time.Time, destination, excludeID string) (bool, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id string) error
	ListTransferCandidates(ctx context.Context, flightID, destination string) ([]domain.Flight, error)
}

const (
	selectFlights = `
SELECT f.id::text, f.departure_datetime, f.destination, f.airplane_id::text, a.name, a.capacity, COUNT(b.id)
FROM flights f
JOIN airplanes a ON a.id = f.airplane_id
LEFT JOIN bookings b ON b.flight_id = f.id`

	listFlightsQuery = selectFlights + `
GROUP BY f.id, a.id
ORDER BY f.departure_datetime DESC`

	getFlightQuery = selectFlights + `
WHERE f.id = $1
GROUP BY f.id, a.id`

	transferCandidatesQuery = selectFlights + `
WHERE f.destination = $1 AND f.id <> $2
GROUP BY f.id, a.id
HAVING a.capacity - COUNT(b.id) > 0
ORDER BY f.departure_datetime`

	lockFlightQuery = `
SELECT f.id::text, f.departure_datetime, f.destination, f.airplane_id::text, a.name, a.capacity
FROM flights f
JOIN airplanes a ON a.id = f.airplane_id
WHERE f.id = $1
FOR UPDATE OF f`

	countFlightBookingsQuery = `SELECT COUNT(*) FROM bookings WHERE flight_id = $1`
	flightExistsQuery        = `SELECT EXISTS (SELECT 1 FROM flights WHERE id = $1)`

	slotTakenQuery = `
SELECT EXISTS (
	SELECT 1 FROM flights
	WHERE departure_datetime = $1 AND destination = $2 AND ($3 = '' OR id::text <> $3)
)`

	insertFlightStmt = `INSERT INTO flights (id, departure_datetime, destination, airplane_id) VALUES ($1, $2, $3, $4)`
	updateFlightStmt = `UPDATE flights SET departure_datetime = $1, destination = $2, airplane_id = $3 WHERE id = $4`
	deleteFlightStmt = `DELETE FROM flights WHERE id = $1`
)

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	return r.queryFlights(ctx, "list flights", listFlightsQuery)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	f, err := scanFlight(conn(ctx, r.db).QueryRow(ctx, getFlightQuery, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return f, nil
}

// GetForUpdate locks the flight row for the rest of the transaction and returns it with its
// current booking count.
func (r *PGFlightRepository) GetForUpdate(ctx context.Context, id string) (*domain.Flight, error) {
	q := conn(ctx, r.db)
	f, err := scanFlight(q.QueryRow(ctx, lockFlightQuery, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, fmt.Errorf("lock flight: %w", err)
	}
	if err := q.QueryRow(ctx, countFlightBookingsQuery, id).Scan(&f.BookingsCount); err != nil {
		return nil, fmt.Errorf("count flight bookings: %w", err)
	}
	f.AvailableSeats = f.Airplane.Capacity - f.BookingsCount
	return f, nil
}

func (r *PGFlightRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "flight exists", flightExistsQuery, id)
}

// SlotTaken reports whether a flight other than excludeID departs at departure to destination.
func (r *PGFlightRepository) SlotTaken(ctx context.Context, departure time.Time, destination, excludeID string) (bool, error) {
	return exists(ctx, r.db, "check flight slot", slotTakenQuery, departure, destination, excludeID)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	_, err := conn(ctx, r.db).Exec(ctx, insertFlightStmt, flight.ID, flight.DepartureTime, flight.Destination, flight.AirplaneID)
	if err != nil {
		return translate("create flight", err)
	}
	return nil
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	tag, err := conn(ctx, r.db).Exec(ctx, updateFlightStmt, flight.DepartureTime, flight.Destination, flight.AirplaneID, flight.ID)
	if err != nil {
		return translate("update flight", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, deleteFlightStmt, id)
	if err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// ListTransferCandidates returns the other flights to destination that still have seats,
// earliest departure first.
func (r *PGFlightRepository) ListTransferCandidates(ctx context.Context, flightID, destination string) ([]domain.Flight, error) {
	return r.queryFlights(ctx, "list transfer candidates", transferCandidatesQuery, destination, flightID)
}

func (r *PGFlightRepository) queryFlights(ctx context.Context, op, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows, true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		flights = append(flights, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return flights, nil
}

func scanFlight(row pgx.Row, withCount bool) (*domain.Flight, error) {
	var f domain.Flight
	dest := []any{&f.ID, &f.DepartureTime, &f.Destination, &f.AirplaneID, &f.Airplane.Name, &f.Airplane.Capacity}
	if withCount {
		dest = append(dest, &f.BookingsCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	f.Airplane.ID = f.AirplaneID
	f.DepartureTime = f.DepartureTime.UTC()
	f.AvailableSeats = f.Airplane.Capacity - f.BookingsCount
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
