package airplanes

import (
	"context"
	"log"
	"strings"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/Domenick1991/aviabooking/internal/repository"
)

type AirplaneUseCase interface {
	List(ctx context.Context) ([]domain.Airplane, error)
	Create(ctx context.Context, input AirplaneInput) (*domain.Airplane, error)
}

type AirplaneInput struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type AirplaneService struct {
	airplanes repository.AirplaneRepository
}

func NewAirplaneService(airplanes repository.AirplaneRepository) *AirplaneService {
	return &AirplaneService{airplanes: airplanes}
}

func (s *AirplaneService) List(ctx context.Context) ([]domain.Airplane, error) {
	return s.airplanes.List(ctx)
}

func (s *AirplaneService) Create(ctx context.Context, input AirplaneInput) (*domain.Airplane, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrAirplaneNameEmpty
	}
	if input.Capacity <= 0 {
		return nil, domain.ErrInvalidCapacity
	}

	airplane := &domain.Airplane{ID: domain.NewID(), Name: name, Capacity: input.Capacity}
	if err := s.airplanes.Create(ctx, airplane); err != nil {
		return nil, err
	}
	log.Printf("airplane created id=%s name=%q capacity=%d", airplane.ID, airplane.Name, airplane.Capacity)
	return airplane, nil
}

var _ AirplaneUseCase = (*AirplaneService)(nil)
