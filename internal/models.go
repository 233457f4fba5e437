package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNoSeats         = errors.New("no seats available")
	ErrValidation      = errors.New("validation error")
)

type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightDelayed   FlightStatus = "DELAYED"
	FlightCancelled FlightStatus = "CANCELLED"
	FlightBoarding  FlightStatus = "BOARDING"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusPending   BookingStatus = "PENDING"
)

type Airline struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LogoURL string    `json:"logo_url,omitempty"`
}

type Airport struct {
	ID   uuid.UUID `json:"id"`
	City string    `json:"city"`
	Code string    `json:"code"`
}

// Label renders the airport the way emails and summaries display it,
// e.g. "London (LHR)". A zero airport renders as "-".
func (a Airport) Label() string {
	if a.City == "" && a.Code == "" {
		return "-"
	}
	return a.City + " (" + a.Code + ")"
}

type Flight struct {
	ID                   uuid.UUID    `json:"id"`
	FlightNumber         string       `json:"flight_number"`
	AirlineID            uuid.UUID    `json:"airline_id"`
	OriginAirportID      uuid.UUID    `json:"origin_airport_id"`
	DestinationAirportID uuid.UUID    `json:"destination_airport_id"`
	DepartureTime        time.Time    `json:"departure_time"`
	ArrivalTime          time.Time    `json:"arrival_time"`
	Duration             string       `json:"duration"`
	Price                float64      `json:"price"`
	AvailableSeats       int          `json:"available_seats"`
	Status               FlightStatus `json:"status"`
	CabinClass           string       `json:"cabin_class,omitempty"`
	AircraftType         string       `json:"aircraft_type,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// FlightDetails is a flight joined to its airline and airport reference data,
// as fetched before an admin update or returned from a search.
type FlightDetails struct {
	Flight
	AirlineName string  `json:"airline_name"`
	Origin      Airport `json:"origin"`
	Destination Airport `json:"destination"`
}

type Booking struct {
	ID               uuid.UUID     `json:"id"`
	BookingReference string        `json:"booking_reference"`
	UserID           uuid.UUID     `json:"user_id"`
	FlightID         uuid.UUID     `json:"flight_id"`
	BookingStatus    BookingStatus `json:"booking_status"`
	TotalPrice       float64       `json:"total_price"`
	TicketURL        string        `json:"ticket_url,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type Passenger struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"booking_id"`
	FullName       string    `json:"full_name"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	Gender         string    `json:"gender"`
	Nationality    string    `json:"nationality"`
	PassportNumber string    `json:"passport_number"`
	SeatNumber     string    `json:"seat_number"`
}

// Identity is the verified caller resolved from a bearer token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type BookingRequest struct {
	FlightID       uuid.UUID `json:"flight_id" validate:"required"`
	FullName       string    `json:"full_name" validate:"required,min=2,max=100"`
	DateOfBirth    time.Time `json:"date_of_birth" validate:"required,past_date"`
	Gender         string    `json:"gender" validate:"required,gender"`
	Nationality    string    `json:"nationality" validate:"required,min=2,max=60"`
	PassportNumber string    `json:"passport_number" validate:"required,passport"`
}

type BookingResponse struct {
	BookingID        uuid.UUID `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	SeatNumber       string    `json:"seat_number"`
	TicketURL        string    `json:"ticket_url"`
}

// BookingUpdateFields is the allow-list of passenger fields a booking owner
// may change, plus an optional flight re-assignment. Anything else submitted
// by a client is dropped before it reaches the service.
type BookingUpdateFields struct {
	FullName       string    `json:"full_name,omitempty"`
	Nationality    string    `json:"nationality,omitempty"`
	PassportNumber string    `json:"passport_number,omitempty"`
	FlightID       uuid.UUID `json:"flight_id,omitempty"`
}

type BookingUpdateRequest struct {
	BookingID uuid.UUID           `json:"booking_id" validate:"required"`
	Action    string              `json:"action" validate:"required,oneof=cancel modify"`
	Update    BookingUpdateFields `json:"update_data"`
}

// BookingDetails is the denormalized view of a booking used to render
// lifecycle emails: the booking row joined to its passenger, the owner's
// email and the flight with airport display names.
type BookingDetails struct {
	Booking
	OwnerEmail    string    `json:"owner_email"`
	PassengerName string    `json:"passenger_name"`
	SeatNumber    string    `json:"seat_number"`
	FlightNumber  string    `json:"flight_number"`
	Origin        Airport   `json:"origin"`
	Destination   Airport   `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

// UserBooking is one entry of the "my bookings" listing: a booking with its
// flight, airline and passenger resolved.
type UserBooking struct {
	Booking
	Flight    FlightDetails `json:"flight"`
	Airline   Airline       `json:"airline"`
	Passenger Passenger     `json:"passenger"`
}

type AllBookingsResponse struct {
	Bookings []UserBooking `json:"bookings"`
}

// FlightUpdateRequest carries an admin flight update. All five fields are
// required on every call; pointers distinguish "absent" from zero values.
type FlightUpdateRequest struct {
	DepartureTime  *time.Time    `json:"departure_time" validate:"required"`
	ArrivalTime    *time.Time    `json:"arrival_time" validate:"required"`
	Price          *float64      `json:"price" validate:"required,gte=0"`
	AvailableSeats *int          `json:"available_seats" validate:"required,gte=0"`
	Status         *FlightStatus `json:"status" validate:"required,flight_status"`
}

// NotificationOutcome records how one recipient of a notification fan-out
// fared. Transient: returned to the caller, never persisted.
type NotificationOutcome struct {
	Email      string `json:"email"`
	Passenger  string `json:"passenger"`
	BookingRef string `json:"booking_ref"`
	Status     string `json:"status"` // "sent" or "failed"
	Error      string `json:"error,omitempty"`
}

// ConfirmedBookingContact is one confirmed booking on a flight joined to the
// data needed to notify its passenger.
type ConfirmedBookingContact struct {
	BookingID        uuid.UUID
	BookingReference string
	UserEmail        string
	UserName         string
	PassengerName    string
	SeatNumber       string
}

type FlightUpdateResult struct {
	Success             bool                  `json:"success"`
	Message             string                `json:"message"`
	NotificationsSent   int                   `json:"notificationsSent"`
	TotalBookings       int                   `json:"totalBookings"`
	HasChanges          bool                  `json:"hasChanges"`
	Changes             []string              `json:"changes"`
	NotificationDetails []NotificationOutcome `json:"notificationDetails"`
	FlightNumber        string                `json:"flightNumber"`
}

type FlightFilters struct {
	Origin        string    `validate:"omitempty,airport_code"`
	Destination   string    `validate:"omitempty,airport_code"`
	DepartureDate time.Time `validate:"-"`
}

type Seat struct {
	Number string `json:"number"`
	Taken  bool   `json:"taken"`
}

type SeatMap struct {
	FlightID uuid.UUID `json:"flight_id"`
	Seats    []Seat    `json:"seats"`
}
