package ports

import (
	"context"

	"github.com/google/uuid"
	models "github.com/skybook/skybook/internal"
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking, passenger *models.Passenger) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetBookingDetails(ctx context.Context, id uuid.UUID) (*models.BookingDetails, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID) ([]models.UserBooking, error)
	SetTicketURL(ctx context.Context, id uuid.UUID, ticketURL string) error
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error
	UpdateBookingFlight(ctx context.Context, id uuid.UUID, flightID uuid.UUID) error
	UpdatePassenger(ctx context.Context, bookingID uuid.UUID, fields map[string]interface{}) error
}

type FlightRepository interface {
	GetFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error)
	GetFlightDetails(ctx context.Context, id uuid.UUID) (*models.FlightDetails, error)
	SearchFlights(ctx context.Context, filters models.FlightFilters) ([]models.FlightDetails, error)
	UpdateFlight(ctx context.Context, id uuid.UUID, update models.FlightUpdateRequest, duration string) error
	ConfirmedBookingContacts(ctx context.Context, flightID uuid.UUID) ([]models.ConfirmedBookingContact, error)
	TakenSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, caller models.Identity, request *models.BookingRequest) (*models.BookingResponse, error)
	CancelBooking(ctx context.Context, caller models.Identity, bookingID uuid.UUID) error
	ModifyBooking(ctx context.Context, caller models.Identity, bookingID uuid.UUID, update models.BookingUpdateFields) error
	UserBookings(ctx context.Context, caller models.Identity) (*models.AllBookingsResponse, error)
	TicketDetails(ctx context.Context, caller models.Identity, bookingID uuid.UUID) (*models.BookingDetails, error)
}

type FlightService interface {
	UpdateFlight(ctx context.Context, caller models.Identity, flightID uuid.UUID, update models.FlightUpdateRequest) (*models.FlightUpdateResult, error)
	SearchFlights(ctx context.Context, filters models.FlightFilters) ([]models.FlightDetails, error)
	SeatMap(ctx context.Context, flightID uuid.UUID) (*models.SeatMap, error)
}

// AuthVerifier is the identity oracle: it resolves a bearer token to a
// verified user id and email, or fails.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

// AdminChecker reports whether an email belongs to an administrator.
type AdminChecker interface {
	IsAdmin(email string) bool
}

// MailSender delivers a single rendered message. It has no queue or retry;
// a failed send is reported once and only once.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// FlightCache holds search results so repeated flight listings skip the
// database. A cache miss or error is never fatal to the read path.
type FlightCache interface {
	GetFlights(ctx context.Context, key string) ([]models.FlightDetails, error)
	SetFlights(ctx context.Context, key string, flights []models.FlightDetails) error
	Invalidate(ctx context.Context, key string) error
}
