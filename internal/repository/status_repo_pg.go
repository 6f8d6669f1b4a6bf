package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/aviabooking/internal/domain"
)

type StatusRepository interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (domain.Stats, error)
}

const statsQuery = `
SELECT
	(SELECT COUNT(*) FROM airplanes),
	(SELECT COUNT(*) FROM flights),
	(SELECT COUNT(*) FROM bookings)`

type PGStatusRepository struct {
	db DB
}

func NewStatusRepository(db DB) StatusRepository {
	return &PGStatusRepository{db: db}
}

func (r *PGStatusRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PGStatusRepository) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	if err := r.db.QueryRow(ctx, statsQuery).Scan(&s.AirplanesCount, &s.FlightsCount, &s.BookingsCount); err != nil {
		return domain.Stats{}, fmt.Errorf("read stats: %w", err)
	}
	return s, nil
}

var _ StatusRepository = (*PGStatusRepository)(nil)
