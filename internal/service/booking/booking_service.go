package booking

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/Domenick1991/aviabooking/internal/kafka"
	"github.com/Domenick1991/aviabooking/internal/repository"
)

type BookingUseCase interface {
	ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, flightID string, input CreateBookingInput) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	TransferBooking(ctx context.Context, id string, input TransferInput) (*domain.Transfer, error)
	TransferCandidates(ctx context.Context, flightID string) ([]domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Invalidator drops cached flight listings whose seat counts went stale.
type Invalidator interface {
	InvalidateFlights(ctx context.Context) error
}

type Recorder interface {
	ObserveOperation(operation, result string)
}

type CreateBookingInput struct {
	PassengerName string `json:"passenger_name"`
}

type TransferInput struct {
	NewFlightID string `json:"new_flight_id"`
}

type BookingService struct {
	tx                 repository.Transactor
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	cache              Invalidator
	metrics            Recorder
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

// WithProducer publishes booking events to topic after every committed change.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCache(cache Invalidator) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithMetrics(r Recorder) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = r
	}
}

func NewBookingService(
	tx repository.Transactor,
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tx:       tx,
		bookings: bookings,
		flights:  flights,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	if err := s.requireFlight(ctx, flightID); err != nil {
		return nil, err
	}
	return s.bookings.ListByFlight(ctx, flightID)
}

// CreateBooking books passenger on a flight. The passenger lock is taken before the flight row
// lock so two bookings for the same passenger on different flights at one departure serialise.
func (s *BookingService) CreateBooking(ctx context.Context, flightID string, input CreateBookingInput) (*domain.Booking, error) {
	passenger := strings.TrimSpace(input.PassengerName)
	if passenger == "" {
		s.record("create_booking", domain.ErrPassengerRequired)
		return nil, domain.ErrPassengerRequired
	}

	booking := &domain.Booking{
		ID:            domain.NewID(),
		PassengerName: passenger,
		FlightID:      flightID,
	}
	var flight *domain.Flight

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if !domain.ValidID(flightID) {
			return domain.ErrFlightNotFound
		}
		if err := s.bookings.LockPassenger(ctx, passenger); err != nil {
			return err
		}

		var err error
		flight, err = s.flights.GetForUpdate(ctx, flightID)
		if err != nil {
			return err
		}
		if !flight.HasSeats() {
			return domain.ErrNoSeatsAvailable
		}

		onFlight, err := s.bookings.ExistsOnFlight(ctx, passenger, flightID)
		if err != nil {
			return err
		}
		if onFlight {
			return domain.ErrAlreadyBooked
		}

		atDeparture, err := s.bookings.ExistsAtDeparture(ctx, passenger, flight.DepartureTime, "")
		if err != nil {
			return err
		}
		if atDeparture {
			return domain.ErrTimeSlotBooked
		}

		return s.bookings.Create(ctx, booking)
	})
	s.record("create_booking", err)
	if err != nil {
		return nil, err
	}

	log.Printf("booking created id=%s flight=%s passenger=%q", booking.ID, flightID, passenger)
	s.invalidate(ctx)
	s.publish(ctx, kafka.BookingEvent{
		Type:          kafka.EventBookingCreated,
		BookingID:     booking.ID,
		PassengerName: passenger,
		FlightID:      flightID,
		Destination:   flight.Destination,
		DepartureTime: flight.DepartureTime,
	})
	return booking, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		s.record("delete_booking", domain.ErrBookingNotFound)
		return domain.ErrBookingNotFound
	}

	var (
		deleted *domain.Booking
		flight  *domain.Flight
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if deleted, err = s.bookings.Delete(ctx, id); err != nil {
			return err
		}
		flight, err = s.flights.GetByID(ctx, deleted.FlightID)
		return err
	})
	s.record("delete_booking", err)
	if err != nil {
		return err
	}

	log.Printf("booking deleted id=%s flight=%s", deleted.ID, deleted.FlightID)
	s.invalidate(ctx)
	s.publish(ctx, kafka.BookingEvent{
		Type:          kafka.EventBookingDeleted,
		BookingID:     deleted.ID,
		PassengerName: deleted.PassengerName,
		FlightID:      deleted.FlightID,
		Destination:   flight.Destination,
		DepartureTime: flight.DepartureTime,
	})
	return nil
}

// TransferBooking moves a booking to another flight with the same destination, keeping its id.
// Every check and the move run in one transaction.
func (s *BookingService) TransferBooking(ctx context.Context, id string, input TransferInput) (*domain.Transfer, error) {
	newFlightID := strings.TrimSpace(input.NewFlightID)
	if newFlightID == "" {
		s.record("transfer_booking", domain.ErrNewFlightRequired)
		return nil, domain.ErrNewFlightRequired
	}

	var (
		transfer *domain.Transfer
		target   *domain.Flight
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if !domain.ValidID(id) {
			return domain.ErrBookingNotFound
		}
		booking, err := s.bookings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		current, err := s.flights.GetByID(ctx, booking.FlightID)
		if err != nil {
			return err
		}

		if err := s.bookings.LockPassenger(ctx, booking.PassengerName); err != nil {
			return err
		}
		if !domain.ValidID(newFlightID) {
			return domain.ErrFlightNotFound
		}
		target, err = s.flights.GetForUpdate(ctx, newFlightID)
		if err != nil {
			return err
		}

		if current.Destination != target.Destination {
			return domain.DestinationMismatch(current.Destination, target.Destination)
		}
		if !target.HasSeats() {
			return domain.ErrNoSeatsAvailable
		}

		onTarget, err := s.bookings.ExistsOnFlight(ctx, booking.PassengerName, target.ID)
		if err != nil {
			return err
		}
		if onTarget {
			return domain.ErrAlreadyBooked
		}

		atDeparture, err := s.bookings.ExistsAtDeparture(ctx, booking.PassengerName, target.DepartureTime, current.ID)
		if err != nil {
			return err
		}
		if atDeparture {
			return domain.ErrTimeSlotBooked
		}

		moved, err := s.bookings.MoveToFlight(ctx, booking.ID, target.ID)
		if err != nil {
			return err
		}
		if moved == 0 {
			return domain.ErrTransferNotApplied
		}

		transfer = &domain.Transfer{
			BookingID:     booking.ID,
			PassengerName: booking.PassengerName,
			OldFlightID:   current.ID,
			NewFlightID:   target.ID,
		}
		return nil
	})
	s.record("transfer_booking", err)
	if err != nil {
		return nil, err
	}

	log.Printf("booking transferred id=%s from=%s to=%s", transfer.BookingID, transfer.OldFlightID, transfer.NewFlightID)
	s.invalidate(ctx)
	s.publish(ctx, kafka.BookingEvent{
		Type:             kafka.EventBookingTransferred,
		BookingID:        transfer.BookingID,
		PassengerName:    transfer.PassengerName,
		FlightID:         transfer.NewFlightID,
		PreviousFlightID: transfer.OldFlightID,
		Destination:      target.Destination,
		DepartureTime:    target.DepartureTime,
	})
	return transfer, nil
}

// TransferCandidates lists the flights a booking on flightID could move to.
func (s *BookingService) TransferCandidates(ctx context.Context, flightID string) ([]domain.Flight, error) {
	if !domain.ValidID(flightID) {
		return nil, domain.ErrFlightNotFound
	}
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	return s.flights.ListTransferCandidates(ctx, flight.ID, flight.Destination)
}

func (s *BookingService) requireFlight(ctx context.Context, flightID string) error {
	if !domain.ValidID(flightID) {
		return domain.ErrFlightNotFound
	}
	ok, err := s.flights.Exists(ctx, flightID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrFlightNotFound
	}
	return nil
}

func (s *BookingService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Printf("WARNING: flights cache invalidation failed: %v", err)
	}
}

// publish never fails the caller; the change is already committed.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.producer.Publish(ctx, s.bookingTopic, event.BookingID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", event.Type, event.BookingID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", event.Type, event.BookingID, err)
		}
	}
}

func (s *BookingService) record(operation string, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.ObserveOperation(operation, domain.KindOf(err).String())
		return
	}
	s.metrics.ObserveOperation(operation, "ok")
}

var _ BookingUseCase = (*BookingService)(nil)
