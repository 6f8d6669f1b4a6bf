package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/Domenick1991/aviabooking/internal/kafka"
	"github.com/Domenick1991/aviabooking/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	flightID    = "0b6a0d4e-3f55-4b8e-9f0e-0d9f5d6c1a11"
	otherFlight = "0b6a0d4e-3f55-4b8e-9f0e-0d9f5d6c1a22"
	bookingID   = "9d2f7c3a-1b4e-4f6a-8c9d-0e1f2a3b4c5d"
)

var departure = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	tx       *mocks.FakeTransactor
	bookings *mocks.MockBookingRepository
	flights  *mocks.MockFlightRepository
	producer *mocks.MockProducer
	cache    *mocks.MockCache
	service  *BookingService
}

func newFixture() *fixture {
	f := &fixture{
		tx:       &mocks.FakeTransactor{},
		bookings: &mocks.MockBookingRepository{},
		flights:  &mocks.MockFlightRepository{},
		producer: &mocks.MockProducer{},
		cache:    &mocks.MockCache{},
	}
	f.service = NewBookingService(f.tx, f.bookings, f.flights,
		WithProducer(f.producer, "booking-events"),
		WithCache(f.cache),
	)
	f.service.now = func() time.Time { return departure.Add(-time.Hour) }
	return f
}

func flight(id, destination string, capacity, booked int) *domain.Flight {
	return &domain.Flight{
		ID:             id,
		DepartureTime:  departure,
		Destination:    destination,
		Airplane:       domain.Airplane{Capacity: capacity},
		BookingsCount:  booked,
		AvailableSeats: capacity - booked,
	}
}

func TestBookingService_ListByFlight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bookings := []domain.Booking{{ID: bookingID, PassengerName: "Anna", FlightID: flightID}}

	f.flights.On("Exists", ctx, flightID).Return(true, nil).Once()
	f.bookings.On("ListByFlight", ctx, flightID).Return(bookings, nil).Once()

	result, err := f.service.ListByFlight(ctx, flightID)

	require.NoError(t, err)
	assert.Equal(t, bookings, result)
}

func TestBookingService_ListByFlight_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("Exists", ctx, flightID).Return(false, nil).Once()

	_, err := f.service.ListByFlight(ctx, flightID)

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	f.bookings.AssertNotCalled(t, "ListByFlight", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, flightID).Return(flight(flightID, "Moscow", 2, 1), nil).Once()
	f.bookings.On("ExistsOnFlight", ctx, "Anna", flightID).Return(false, nil).Once()
	f.bookings.On("ExistsAtDeparture", ctx, "Anna", departure, "").Return(false, nil).Once()
	f.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.PassengerName == "Anna" && b.FlightID == flightID
	})).Return(nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(nil).Once()
	f.producer.On("Publish", ctx, "booking-events", mock.Anything, mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCreated && e.PassengerName == "Anna" && e.Destination == "Moscow"
	})).Return(nil).Once()

	booking, err := f.service.CreateBooking(ctx, flightID, CreateBookingInput{PassengerName: "  Anna "})

	require.NoError(t, err)
	assert.Equal(t, "Anna", booking.PassengerName)
	assert.True(t, domain.ValidID(booking.ID))
	assert.Equal(t, 1, f.tx.Commits)
	f.bookings.AssertExpectations(t)
	f.producer.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestBookingService_CreateBooking_BlankPassenger(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateBooking(context.Background(), flightID, CreateBookingInput{PassengerName: "   "})

	assert.ErrorIs(t, err, domain.ErrPassengerRequired)
	assert.Zero(t, f.tx.Commits+f.tx.Rollbacks)
}

func TestBookingService_CreateBooking_FlightNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, flightID).Return(nil, domain.ErrFlightNotFound).Once()

	_, err := f.service.CreateBooking(ctx, flightID, CreateBookingInput{PassengerName: "Anna"})

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestBookingService_CreateBooking_MalformedFlightID(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateBooking(context.Background(), "17", CreateBookingInput{PassengerName: "Anna"})

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	f.bookings.AssertNotCalled(t, "LockPassenger", mock.Anything, mock.Anything)
}

// capacity is checked before duplicates
func TestBookingService_CreateBooking_Full(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, flightID).Return(flight(flightID, "Moscow", 1, 1), nil).Once()

	_, err := f.service.CreateBooking(ctx, flightID, CreateBookingInput{PassengerName: "Anna"})

	assert.ErrorIs(t, err, domain.ErrNoSeatsAvailable)
	f.bookings.AssertNotCalled(t, "ExistsOnFlight", mock.Anything, mock.Anything, mock.Anything)
	f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, flightID).Return(flight(flightID, "Moscow", 5, 1), nil).Once()
	f.bookings.On("ExistsOnFlight", ctx, "Anna", flightID).Return(true, nil).Once()

	_, err := f.service.CreateBooking(ctx, flightID, CreateBookingInput{PassengerName: "Anna"})

	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_TimeConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, flightID).Return(flight(flightID, "Moscow", 5, 1), nil).Once()
	f.bookings.On("ExistsOnFlight", ctx, "Anna", flightID).Return(false, nil).Once()
	f.bookings.On("ExistsAtDeparture", ctx, "Anna", departure, "").Return(true, nil).Once()

	_, err := f.service.CreateBooking(ctx, flightID, CreateBookingInput{PassengerName: "Anna"})

	assert.ErrorIs(t, err, domain.ErrTimeSlotBooked)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

// the booking is committed even when the broker is down
func TestBookingService_CreateBooking_PublishFailureIgnored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, flightID).Return(flight(flightID, "Moscow", 5, 0), nil).Once()
	f.bookings.On("ExistsOnFlight", ctx, "Anna", flightID).Return(false, nil).Once()
	f.bookings.On("ExistsAtDeparture", ctx, "Anna", departure, "").Return(false, nil).Once()
	f.bookings.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(errors.New("redis down")).Once()
	f.producer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

	booking, err := f.service.CreateBooking(ctx, flightID, CreateBookingInput{PassengerName: "Anna"})

	require.NoError(t, err)
	assert.NotNil(t, booking)
	f.producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_NotificationsTopic(t *testing.T) {
	f := newFixture()
	WithNotificationsTopic("notifications")(f.service)
	ctx := context.Background()

	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, flightID).Return(flight(flightID, "Moscow", 5, 0), nil).Once()
	f.bookings.On("ExistsOnFlight", ctx, "Anna", flightID).Return(false, nil).Once()
	f.bookings.On("ExistsAtDeparture", ctx, "Anna", departure, "").Return(false, nil).Once()
	f.bookings.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(nil).Once()
	f.producer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()
	f.producer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.service.CreateBooking(ctx, flightID, CreateBookingInput{PassengerName: "Anna"})

	require.NoError(t, err)
	f.producer.AssertExpectations(t)
}

func TestBookingService_DeleteBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	deleted := &domain.Booking{ID: bookingID, PassengerName: "Anna", FlightID: flightID}

	f.bookings.On("Delete", ctx, bookingID).Return(deleted, nil).Once()
	f.flights.On("GetByID", ctx, flightID).Return(flight(flightID, "Moscow", 5, 0), nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(nil).Once()
	f.producer.On("Publish", ctx, "booking-events", bookingID, mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingDeleted && e.FlightID == flightID && e.Destination == "Moscow"
	})).Return(nil).Once()

	err := f.service.DeleteBooking(ctx, bookingID)

	require.NoError(t, err)
	f.producer.AssertExpectations(t)
}

func TestBookingService_DeleteBooking_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("Delete", ctx, bookingID).Return(nil, domain.ErrBookingNotFound).Once()

	err := f.service.DeleteBooking(ctx, bookingID)

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	f.cache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
}

func TestBookingService_DeleteBooking_MalformedID(t *testing.T) {
	f := newFixture()

	err := f.service.DeleteBooking(context.Background(), "abc")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func expectTransferPrelude(ctx context.Context, f *fixture, target *domain.Flight) {
	f.bookings.On("GetForUpdate", ctx, bookingID).
		Return(&domain.Booking{ID: bookingID, PassengerName: "Anna", FlightID: flightID}, nil).Once()
	f.flights.On("GetByID", ctx, flightID).Return(flight(flightID, "Moscow", 5, 1), nil).Once()
	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, otherFlight).Return(target, nil).Once()
}

func TestBookingService_TransferBooking_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	target := flight(otherFlight, "Moscow", 5, 2)
	target.DepartureTime = departure.Add(24 * time.Hour)

	expectTransferPrelude(ctx, f, target)
	f.bookings.On("ExistsOnFlight", ctx, "Anna", otherFlight).Return(false, nil).Once()
	f.bookings.On("ExistsAtDeparture", ctx, "Anna", target.DepartureTime, flightID).Return(false, nil).Once()
	f.bookings.On("MoveToFlight", ctx, bookingID, otherFlight).Return(int64(1), nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(nil).Once()
	f.producer.On("Publish", ctx, "booking-events", bookingID, mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingTransferred && e.PreviousFlightID == flightID && e.FlightID == otherFlight
	})).Return(nil).Once()

	transfer, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	require.NoError(t, err)
	assert.Equal(t, &domain.Transfer{
		BookingID:     bookingID,
		PassengerName: "Anna",
		OldFlightID:   flightID,
		NewFlightID:   otherFlight,
	}, transfer)
	assert.Equal(t, 1, f.tx.Commits)
	f.bookings.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestBookingService_TransferBooking_MissingTarget(t *testing.T) {
	f := newFixture()

	_, err := f.service.TransferBooking(context.Background(), bookingID, TransferInput{})

	assert.ErrorIs(t, err, domain.ErrNewFlightRequired)
	f.bookings.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestBookingService_TransferBooking_BookingNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetForUpdate", ctx, bookingID).Return(nil, domain.ErrBookingNotFound).Once()

	_, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingService_TransferBooking_TargetNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetForUpdate", ctx, bookingID).
		Return(&domain.Booking{ID: bookingID, PassengerName: "Anna", FlightID: flightID}, nil).Once()
	f.flights.On("GetByID", ctx, flightID).Return(flight(flightID, "Moscow", 5, 1), nil).Once()
	f.bookings.On("LockPassenger", ctx, "Anna").Return(nil).Once()
	f.flights.On("GetForUpdate", ctx, otherFlight).Return(nil, domain.ErrFlightNotFound).Once()

	_, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestBookingService_TransferBooking_DestinationMismatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expectTransferPrelude(ctx, f, flight(otherFlight, "Sochi", 5, 0))

	_, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	require.ErrorIs(t, err, domain.ErrDestinationMismatch)
	assert.Contains(t, err.Error(), "Current: Moscow, new: Sochi")
	f.bookings.AssertNotCalled(t, "MoveToFlight", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_TransferBooking_TargetFull(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expectTransferPrelude(ctx, f, flight(otherFlight, "Moscow", 3, 3))

	_, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	assert.ErrorIs(t, err, domain.ErrNoSeatsAvailable)
}

func TestBookingService_TransferBooking_AlreadyOnTarget(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expectTransferPrelude(ctx, f, flight(otherFlight, "Moscow", 3, 1))
	f.bookings.On("ExistsOnFlight", ctx, "Anna", otherFlight).Return(true, nil).Once()

	_, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
}

func TestBookingService_TransferBooking_TimeConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expectTransferPrelude(ctx, f, flight(otherFlight, "Moscow", 3, 1))
	f.bookings.On("ExistsOnFlight", ctx, "Anna", otherFlight).Return(false, nil).Once()
	f.bookings.On("ExistsAtDeparture", ctx, "Anna", departure, flightID).Return(true, nil).Once()

	_, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	assert.ErrorIs(t, err, domain.ErrTimeSlotBooked)
}

func TestBookingService_TransferBooking_NothingMoved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	expectTransferPrelude(ctx, f, flight(otherFlight, "Moscow", 3, 1))
	f.bookings.On("ExistsOnFlight", ctx, "Anna", otherFlight).Return(false, nil).Once()
	f.bookings.On("ExistsAtDeparture", ctx, "Anna", departure, flightID).Return(false, nil).Once()
	f.bookings.On("MoveToFlight", ctx, bookingID, otherFlight).Return(int64(0), nil).Once()

	_, err := f.service.TransferBooking(ctx, bookingID, TransferInput{NewFlightID: otherFlight})

	assert.ErrorIs(t, err, domain.ErrTransferNotApplied)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, 1, f.tx.Rollbacks)
	f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_TransferCandidates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	candidates := []domain.Flight{*flight(otherFlight, "Moscow", 3, 1)}

	f.flights.On("GetByID", ctx, flightID).Return(flight(flightID, "Moscow", 3, 1), nil).Once()
	f.flights.On("ListTransferCandidates", ctx, flightID, "Moscow").Return(candidates, nil).Once()

	result, err := f.service.TransferCandidates(ctx, flightID)

	require.NoError(t, err)
	assert.Equal(t, candidates, result)
}

func TestBookingService_TransferCandidates_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, flightID).Return(nil, domain.ErrFlightNotFound).Once()

	_, err := f.service.TransferCandidates(ctx, flightID)

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	f.flights.AssertNotCalled(t, "ListTransferCandidates", mock.Anything, mock.Anything, mock.Anything)
}
