package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	models "github.com/skybook/skybook/internal"
	"github.com/skybook/skybook/internal/mailer"
	"github.com/skybook/skybook/internal/ports"
)

type bookingService struct {
	bookings ports.BookingRepository
	flights  ports.FlightRepository
	sender   ports.MailSender
}

func NewBookingService(bookings ports.BookingRepository, flights ports.FlightRepository, sender ports.MailSender) *bookingService {
	return &bookingService{
		bookings: bookings,
		flights:  flights,
		sender:   sender,
	}
}

// newBookingReference derives the public booking code from a fresh random
// token: first 8 characters, uppercased.
func newBookingReference() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// newSeatNumber picks a row in 1-30 and a letter A-F. Cosmetic only; it is
// not checked against other passengers' seats.
func newSeatNumber() string {
	row := rand.Intn(30) + 1
	letter := rune('A' + rand.Intn(6))
	return fmt.Sprintf("%d%c", row, letter)
}

func (s *bookingService) CreateBooking(ctx context.Context, caller models.Identity, request *models.BookingRequest) (*models.BookingResponse, error) {
	if caller.UserID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}

	flight, err := s.flights.GetFlightDetails(ctx, request.FlightID)
	if err != nil {
		return nil, err
	}
	if flight.AvailableSeats < 1 {
		return nil, models.ErrNoSeats
	}

	booking := &models.Booking{
		ID:               uuid.New(),
		BookingReference: newBookingReference(),
		UserID:           caller.UserID,
		FlightID:         request.FlightID,
		TotalPrice:       flight.Price,
	}
	passenger := &models.Passenger{
		FullName:       request.FullName,
		DateOfBirth:    request.DateOfBirth,
		Gender:         request.Gender,
		Nationality:    request.Nationality,
		PassportNumber: request.PassportNumber,
		SeatNumber:     newSeatNumber(),
	}

	saved, err := s.bookings.CreateBooking(ctx, booking, passenger)
	if err != nil {
		return nil, fmt.Errorf("error creating booking: %w", err)
	}

	// From here on the booking is committed; nothing below may undo it.
	ticketURL := "/tickets/" + saved.ID.String()
	if err := s.bookings.SetTicketURL(ctx, saved.ID, ticketURL); err != nil {
		log.Printf("failed to set ticket url for booking %s: %v", saved.ID, err)
	}

	data := mailer.BookingEmailData{
		To:               caller.Email,
		BookingReference: saved.BookingReference,
		TicketURL:        ticketURL,
		PassengerName:    passenger.FullName,
		Flight: mailer.FlightSummary{
			Origin:        flight.Origin.Label(),
			Destination:   flight.Destination.Label(),
			DepartureTime: mailer.FormatTime(flight.DepartureTime),
			ArrivalTime:   mailer.FormatTime(flight.ArrivalTime),
			FlightNumber:  flight.FlightNumber,
			SeatNumber:    passenger.SeatNumber,
			TotalPrice:    flight.Price,
		},
	}
	subject, html, text := mailer.RenderBookingConfirmation(data)
	if err := s.sender.Send(ctx, data.To, subject, html, text); err != nil {
		log.Printf("failed to send confirmation email for booking %s: %v", saved.BookingReference, err)
	}

	return &models.BookingResponse{
		BookingID:        saved.ID,
		BookingReference: saved.BookingReference,
		SeatNumber:       passenger.SeatNumber,
		TicketURL:        ticketURL,
	}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, caller models.Identity, bookingID uuid.UUID) error {
	if _, err := s.ownedBooking(ctx, caller, bookingID); err != nil {
		return err
	}

	// Details are fetched before the status flips so the cancellation email
	// reflects the booking as it existed.
	details, err := s.bookings.GetBookingDetails(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to fetch booking details: %w", err)
	}

	if err := s.bookings.UpdateBookingStatus(ctx, bookingID, models.StatusCancelled); err != nil {
		return fmt.Errorf("error cancelling booking: %w", err)
	}

	// Seats on the flight are intentionally left as-is; cancellation has
	// never restored available_seats.
	subject, html, text := mailer.RenderBookingCancellation(emailDataFromDetails(details))
	if err := s.sender.Send(ctx, details.OwnerEmail, subject, html, text); err != nil {
		log.Printf("failed to send cancellation email for booking %s: %v", details.BookingReference, err)
	}
	return nil
}

func (s *bookingService) ModifyBooking(ctx context.Context, caller models.Identity, bookingID uuid.UUID, update models.BookingUpdateFields) error {
	booking, err := s.ownedBooking(ctx, caller, bookingID)
	if err != nil {
		return err
	}

	// A flight re-assignment is validated and applied before any passenger
	// fields change, so a bad flight id leaves the booking untouched. Seat
	// counters on either flight are not adjusted.
	if update.FlightID != uuid.Nil && update.FlightID != booking.FlightID {
		if _, err := s.flights.GetFlight(ctx, update.FlightID); err != nil {
			if errors.Is(err, models.ErrFlightNotFound) {
				return fmt.Errorf("%w: invalid flight_id", models.ErrValidation)
			}
			return err
		}
		if err := s.bookings.UpdateBookingFlight(ctx, bookingID, update.FlightID); err != nil {
			return fmt.Errorf("error updating booking flight: %w", err)
		}
	}

	fields := make(map[string]interface{})
	if update.FullName != "" {
		fields["full_name"] = update.FullName
	}
	if update.Nationality != "" {
		fields["nationality"] = update.Nationality
	}
	if update.PassportNumber != "" {
		fields["passport_number"] = update.PassportNumber
	}
	if len(fields) > 0 {
		if err := s.bookings.UpdatePassenger(ctx, bookingID, fields); err != nil {
			return fmt.Errorf("error updating passenger: %w", err)
		}
	}

	// Unlike cancellation, the details fetch happens after the mutations and
	// any failure here fails the whole call.
	details, err := s.bookings.GetBookingDetails(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to fetch booking details: %w", err)
	}
	subject, html, text := mailer.RenderBookingModification(emailDataFromDetails(details))
	if err := s.sender.Send(ctx, details.OwnerEmail, subject, html, text); err != nil {
		log.Printf("failed to send modification email for booking %s: %v", details.BookingReference, err)
	}
	return nil
}

func (s *bookingService) UserBookings(ctx context.Context, caller models.Identity) (*models.AllBookingsResponse, error) {
	if caller.UserID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	bookings, err := s.bookings.GetUserBookings(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.UserBooking{}
	}
	return &models.AllBookingsResponse{Bookings: bookings}, nil
}

func (s *bookingService) TicketDetails(ctx context.Context, caller models.Identity, bookingID uuid.UUID) (*models.BookingDetails, error) {
	if _, err := s.ownedBooking(ctx, caller, bookingID); err != nil {
		return nil, err
	}
	return s.bookings.GetBookingDetails(ctx, bookingID)
}

func (s *bookingService) ownedBooking(ctx context.Context, caller models.Identity, bookingID uuid.UUID) (*models.Booking, error) {
	if caller.UserID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != caller.UserID {
		return nil, models.ErrForbidden
	}
	return booking, nil
}

func emailDataFromDetails(d *models.BookingDetails) mailer.BookingEmailData {
	passengerName := d.PassengerName
	if passengerName == "" {
		passengerName = "Passenger"
	}
	seat := d.SeatNumber
	if seat == "" {
		seat = "-"
	}
	return mailer.BookingEmailData{
		To:               d.OwnerEmail,
		BookingReference: d.BookingReference,
		TicketURL:        d.TicketURL,
		PassengerName:    passengerName,
		Flight: mailer.FlightSummary{
			Origin:        d.Origin.Label(),
			Destination:   d.Destination.Label(),
			DepartureTime: mailer.FormatTime(d.DepartureTime),
			ArrivalTime:   mailer.FormatTime(d.ArrivalTime),
			FlightNumber:  d.FlightNumber,
			SeatNumber:    seat,
			TotalPrice:    d.TotalPrice,
		},
	}
}
