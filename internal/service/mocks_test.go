package service_test

import (
	"context"

	"github.com/google/uuid"
	models "github.com/skybook/skybook/internal"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateBooking(ctx context.Context, booking *models.Booking, passenger *models.Passenger) (*models.Booking, error) {
	args := m.Called(ctx, booking, passenger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetBookingDetails(ctx context.Context, id uuid.UUID) (*models.BookingDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingDetails), args.Error(1)
}

func (m *MockBookingRepository) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]models.UserBooking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserBooking), args.Error(1)
}

func (m *MockBookingRepository) SetTicketURL(ctx context.Context, id uuid.UUID, ticketURL string) error {
	args := m.Called(ctx, id, ticketURL)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateBookingFlight(ctx context.Context, id uuid.UUID, flightID uuid.UUID) error {
	args := m.Called(ctx, id, flightID)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdatePassenger(ctx context.Context, bookingID uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, bookingID, fields)
	return args.Error(0)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) GetFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetFlightDetails(ctx context.Context, id uuid.UUID) (*models.FlightDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightDetails), args.Error(1)
}

func (m *MockFlightRepository) SearchFlights(ctx context.Context, filters models.FlightFilters) ([]models.FlightDetails, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightDetails), args.Error(1)
}

func (m *MockFlightRepository) UpdateFlight(ctx context.Context, id uuid.UUID, update models.FlightUpdateRequest, duration string) error {
	args := m.Called(ctx, id, update, duration)
	return args.Error(0)
}

func (m *MockFlightRepository) ConfirmedBookingContacts(ctx context.Context, flightID uuid.UUID) ([]models.ConfirmedBookingContact, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConfirmedBookingContact), args.Error(1)
}

func (m *MockFlightRepository) TakenSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	args := m.Called(ctx, to, subject, htmlBody, textBody)
	return args.Error(0)
}

type MockAdminChecker struct {
	mock.Mock
}

func (m *MockAdminChecker) IsAdmin(email string) bool {
	args := m.Called(email)
	return args.Bool(0)
}

type MockFlightCache struct {
	mock.Mock
}

func (m *MockFlightCache) GetFlights(ctx context.Context, key string) ([]models.FlightDetails, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightDetails), args.Error(1)
}

func (m *MockFlightCache) SetFlights(ctx context.Context, key string, flights []models.FlightDetails) error {
	args := m.Called(ctx, key, flights)
	return args.Error(0)
}

func (m *MockFlightCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
