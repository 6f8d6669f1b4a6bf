package api

import (
	"context"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/Domenick1991/aviabooking/internal/service/airplanes"
	"github.com/Domenick1991/aviabooking/internal/service/booking"
	"github.com/Domenick1991/aviabooking/internal/service/flights"
	"github.com/Domenick1991/aviabooking/internal/service/status"
	"github.com/stretchr/testify/mock"
)

type MockAirplaneUseCase struct {
	mock.Mock
}

func (m *MockAirplaneUseCase) List(ctx context.Context) ([]domain.Airplane, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockAirplaneUseCase) Create(ctx context.Context, input airplanes.AirplaneInput) (*domain.Airplane, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id string, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, flightID string, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, flightID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingUseCase) TransferBooking(ctx context.Context, id string, input booking.TransferInput) (*domain.Transfer, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockBookingUseCase) TransferCandidates(ctx context.Context, flightID string) ([]domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockStatusUseCase struct {
	mock.Mock
}

func (m *MockStatusUseCase) Report(ctx context.Context) (status.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(status.Report), args.Error(1)
}

var (
	_ airplanes.AirplaneUseCase = (*MockAirplaneUseCase)(nil)
	_ flights.FlightUseCase     = (*MockFlightUseCase)(nil)
	_ booking.BookingUseCase    = (*MockBookingUseCase)(nil)
	_ status.StatusUseCase      = (*MockStatusUseCase)(nil)
)
