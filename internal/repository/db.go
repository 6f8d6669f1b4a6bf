package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories need. pgxmock pools satisfy it too.
type DB interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor runs fn inside a single transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type PGTransactor struct {
	db DB
}

func NewTransactor(db DB) *PGTransactor {
	return &PGTransactor{db: db}
}

// WithTx begins a transaction, hands it to the repositories through ctx and commits when fn
// returns nil. Any error or panic from fn rolls the transaction back. Nested calls join the
// outer transaction.
func (t *PGTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

func conn(ctx context.Context, db DB) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintErrors maps schema constraints to the domain error a violation means.
var constraintErrors = map[string]*domain.Error{
	"flights_departure_destination_key": domain.ErrFlightSlotTaken,
	"bookings_passenger_flight_key":     domain.ErrAlreadyBooked,
	"flights_airplane_id_fkey":          domain.ErrAirplaneNotFound,
	"bookings_flight_id_fkey":           domain.ErrFlightNotFound,
}

// translate turns a constraint violation into its domain error and wraps anything else with op.
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == codeUniqueViolation || pgErr.Code == codeForeignKeyViolation) {
		if derr, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return derr
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func exists(ctx context.Context, db DB, op, sql string, args ...any) (bool, error) {
	var ok bool
	if err := conn(ctx, db).QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}
