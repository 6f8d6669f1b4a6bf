package flights

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/Domenick1991/aviabooking/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id string, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id string) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Recorder interface {
	ObserveOperation(operation, result string)
}

type FlightInput struct {
	DepartureDatetime string `json:"departure_datetime"`
	Destination       string `json:"destination"`
	AirplaneID        string `json:"airplane_id"`
}

// validate checks field presence in request order, then the departure format.
func (in FlightInput) validate() (time.Time, error) {
	if strings.TrimSpace(in.DepartureDatetime) == "" {
		return time.Time{}, domain.ErrDepartureRequired
	}
	if strings.TrimSpace(in.Destination) == "" {
		return time.Time{}, domain.ErrDestinationRequired
	}
	if strings.TrimSpace(in.AirplaneID) == "" {
		return time.Time{}, domain.ErrAirplaneRequired
	}
	departure, err := domain.ParseDeparture(in.DepartureDatetime)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDeparture
	}
	return departure, nil
}

type FlightService struct {
	tx        repository.Transactor
	flights   repository.FlightRepository
	airplanes repository.AirplaneRepository
	bookings  repository.BookingRepository
	cache     FlightCache
	metrics   Recorder
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithMetrics(r Recorder) FlightServiceOption {
	return func(s *FlightService) {
		s.metrics = r
	}
}

func NewFlightService(
	tx repository.Transactor,
	flights repository.FlightRepository,
	airplanes repository.AirplaneRepository,
	bookings repository.BookingRepository,
	opts ...FlightServiceOption,
) *FlightService {
	s := &FlightService{tx: tx, flights: flights, airplanes: airplanes, bookings: bookings}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			log.Printf("WARNING: flights cache read failed: %v", err)
		}
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			log.Printf("WARNING: flights cache write failed: %v", err)
		}
	}
	return flights, nil
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	departure, err := input.validate()
	if err != nil {
		s.record("create_flight", err)
		return nil, err
	}

	flight := &domain.Flight{
		ID:            domain.NewID(),
		DepartureTime: departure,
		Destination:   strings.TrimSpace(input.Destination),
		AirplaneID:    strings.TrimSpace(input.AirplaneID),
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.checkAirplane(ctx, flight.AirplaneID); err != nil {
			return err
		}
		if err := s.checkSlot(ctx, flight, ""); err != nil {
			return err
		}
		return s.flights.Create(ctx, flight)
	})
	s.record("create_flight", err)
	if err != nil {
		return nil, err
	}

	log.Printf("flight created id=%s destination=%s departure=%s", flight.ID, flight.Destination, flight.DepartureTime.Format(time.RFC3339))
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Update(ctx context.Context, id string, input FlightInput) (*domain.Flight, error) {
	departure, err := input.validate()
	if err != nil {
		s.record("update_flight", err)
		return nil, err
	}

	flight := &domain.Flight{
		ID:            id,
		DepartureTime: departure,
		Destination:   strings.TrimSpace(input.Destination),
		AirplaneID:    strings.TrimSpace(input.AirplaneID),
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if !domain.ValidID(id) {
			return domain.ErrFlightNotFound
		}
		ok, err := s.flights.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrFlightNotFound
		}
		if err := s.checkAirplane(ctx, flight.AirplaneID); err != nil {
			return err
		}
		if err := s.checkSlot(ctx, flight, id); err != nil {
			return err
		}
		return s.flights.Update(ctx, flight)
	})
	s.record("update_flight", err)
	if err != nil {
		return nil, err
	}

	log.Printf("flight updated id=%s", id)
	s.invalidate(ctx)
	return flight, nil
}

// Delete removes a flight that has no bookings. The flight row stays locked between the
// bookings check and the delete so no booking can slip in.
func (s *FlightService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if !domain.ValidID(id) {
			return domain.ErrFlightNotFound
		}
		flight, err := s.flights.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if flight.BookingsCount > 0 {
			names, err := s.bookings.PassengerNames(ctx, id, domain.MaxListedPassengers)
			if err != nil {
				return err
			}
			log.Printf("flight delete rejected id=%s bookings=%d", id, flight.BookingsCount)
			return domain.FlightHasBookings(flight.BookingsCount, names)
		}
		return s.flights.Delete(ctx, id)
	})
	s.record("delete_flight", err)
	if err != nil {
		return err
	}

	log.Printf("flight deleted id=%s", id)
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) checkAirplane(ctx context.Context, airplaneID string) error {
	if !domain.ValidID(airplaneID) {
		return domain.ErrAirplaneNotFound
	}
	ok, err := s.airplanes.Exists(ctx, airplaneID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAirplaneNotFound
	}
	return nil
}

func (s *FlightService) checkSlot(ctx context.Context, flight *domain.Flight, excludeID string) error {
	taken, err := s.flights.SlotTaken(ctx, flight.DepartureTime, flight.Destination, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrFlightSlotTaken
	}
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Printf("WARNING: flights cache invalidation failed: %v", err)
	}
}

func (s *FlightService) record(operation string, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.ObserveOperation(operation, domain.KindOf(err).String())
		return
	}
	s.metrics.ObserveOperation(operation, "ok")
}

var _ FlightUseCase = (*FlightService)(nil)
