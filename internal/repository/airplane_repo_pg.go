package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/aviabooking/internal/domain"
)

type AirplaneRepository interface {
	List(ctx context.Context) ([]domain.Airplane, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, airplane *domain.Airplane) error
}

const (
	listAirplanesQuery  = `SELECT id::text, name, capacity FROM airplanes ORDER BY name`
	airplaneExistsQuery = `SELECT EXISTS (SELECT 1 FROM airplanes WHERE id = $1)`
	insertAirplaneStmt  = `INSERT INTO airplanes (id, name, capacity) VALUES ($1, $2, $3)`
)

type PGAirplaneRepository struct {
	db DB
}

func NewAirplaneRepository(db DB) AirplaneRepository {
	return &PGAirplaneRepository{db: db}
}

func (r *PGAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := conn(ctx, r.db).Query(ctx, listAirplanesQuery)
	if err != nil {
		return nil, fmt.Errorf("list airplanes: %w", err)
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Capacity); err != nil {
			return nil, fmt.Errorf("list airplanes: %w", err)
		}
		airplanes = append(airplanes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list airplanes: %w", err)
	}
	return airplanes, nil
}

func (r *PGAirplaneRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "airplane exists", airplaneExistsQuery, id)
}

func (r *PGAirplaneRepository) Create(ctx context.Context, airplane *domain.Airplane) error {
	if _, err := conn(ctx, r.db).Exec(ctx, insertAirplaneStmt, airplane.ID, airplane.Name, airplane.Capacity); err != nil {
		return translate("create airplane", err)
	}
	return nil
}

var _ AirplaneRepository = (*PGAirplaneRepository)(nil)
