package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	models "github.com/skybook/skybook/internal"
	"github.com/skybook/skybook/internal/mailer"
	"github.com/skybook/skybook/internal/ports"
)

// significantPriceDelta is the price change, in dollars, beyond which every
// confirmed passenger is notified. The admin-facing change summary uses the
// tighter summaryPriceDelta instead.
const (
	significantPriceDelta = 5.0
	summaryPriceDelta     = 0.01
)

type flightService struct {
	flights ports.FlightRepository
	sender  ports.MailSender
	admins  ports.AdminChecker
	cache   ports.FlightCache
}

func NewFlightService(flights ports.FlightRepository, sender ports.MailSender, admins ports.AdminChecker, cache ports.FlightCache) *flightService {
	return &flightService{
		flights: flights,
		sender:  sender,
		admins:  admins,
		cache:   cache,
	}
}

func (s *flightService) UpdateFlight(ctx context.Context, caller models.Identity, flightID uuid.UUID, update models.FlightUpdateRequest) (*models.FlightUpdateResult, error) {
	if s.admins == nil || !s.admins.IsAdmin(caller.Email) {
		return nil, models.ErrForbidden
	}
	if update.DepartureTime == nil || update.ArrivalTime == nil || update.Price == nil ||
		update.AvailableSeats == nil || update.Status == nil {
		return nil, fmt.Errorf("%w: missing required fields", models.ErrValidation)
	}

	current, err := s.flights.GetFlightDetails(ctx, flightID)
	if err != nil {
		return nil, err
	}

	duration := formatDuration(update.ArrivalTime.Sub(*update.DepartureTime))
	if err := s.flights.UpdateFlight(ctx, flightID, update, duration); err != nil {
		return nil, fmt.Errorf("error updating flight: %w", err)
	}

	significant := !update.DepartureTime.Equal(current.DepartureTime) ||
		!update.ArrivalTime.Equal(current.ArrivalTime) ||
		*update.Status != current.Status ||
		math.Abs(*update.Price-current.Price) > significantPriceDelta

	var (
		outcomes      []models.NotificationOutcome
		sent          int
		totalBookings int
	)
	if significant {
		contacts, err := s.flights.ConfirmedBookingContacts(ctx, flightID)
		if err != nil {
			// The flight row is already committed; a failed enumeration only
			// means nobody gets notified.
			log.Printf("failed to fetch bookings for flight %s notifications: %v", flightID, err)
		} else {
			totalBookings = len(contacts)
			outcomes = s.notifyPassengers(ctx, current, update, contacts)
			for _, o := range outcomes {
				if o.Status == "sent" {
					sent++
				}
			}
		}
	}

	return &models.FlightUpdateResult{
		Success:             true,
		Message:             "Flight updated successfully",
		NotificationsSent:   sent,
		TotalBookings:       totalBookings,
		HasChanges:          significant,
		Changes:             changeSummary(current, update),
		NotificationDetails: outcomes,
		FlightNumber:        current.FlightNumber,
	}, nil
}

// notifyPassengers issues one send per contact concurrently and waits for all
// of them to settle. One slow or failing recipient never blocks or cancels
// the others, and every attempt is recorded.
func (s *flightService) notifyPassengers(ctx context.Context, current *models.FlightDetails, update models.FlightUpdateRequest, contacts []models.ConfirmedBookingContact) []models.NotificationOutcome {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []models.NotificationOutcome
	)

	for _, contact := range contacts {
		if contact.UserEmail == "" {
			continue
		}
		wg.Add(1)
		go func(c models.ConfirmedBookingContact) {
			defer wg.Done()

			passengerName := c.PassengerName
			if passengerName == "" {
				passengerName = c.UserName
			}
			if passengerName == "" {
				passengerName = "Passenger"
			}
			seat := c.SeatNumber
			if seat == "" {
				seat = "TBD"
			}

			data := mailer.FlightChangeEmailData{
				To:               c.UserEmail,
				BookingReference: c.BookingReference,
				PassengerName:    passengerName,
				FlightNumber:     current.FlightNumber,
				Origin:           current.Origin.City,
				Destination:      current.Destination.City,
				OldDeparture:     mailer.FormatTime(current.DepartureTime),
				NewDeparture:     mailer.FormatTime(*update.DepartureTime),
				OldArrival:       mailer.FormatTime(current.ArrivalTime),
				NewArrival:       mailer.FormatTime(*update.ArrivalTime),
				OldPrice:         current.Price,
				NewPrice:         *update.Price,
				OldStatus:        string(current.Status),
				NewStatus:        string(*update.Status),
				SeatNumber:       seat,
			}
			subject, html, text := mailer.RenderFlightChange(data)

			outcome := models.NotificationOutcome{
				Email:      c.UserEmail,
				Passenger:  passengerName,
				BookingRef: c.BookingReference,
				Status:     "sent",
			}
			if err := s.sender.Send(ctx, c.UserEmail, subject, html, text); err != nil {
				outcome.Status = "failed"
				outcome.Error = err.Error()
			}

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}(contact)
	}

	wg.Wait()
	return outcomes
}

// changeSummary builds the human-readable list shown to the admin. Computed
// for every update, whether or not it crossed the notification threshold.
func changeSummary(current *models.FlightDetails, update models.FlightUpdateRequest) []string {
	changes := []string{}
	if !update.DepartureTime.Equal(current.DepartureTime) {
		changes = append(changes, fmt.Sprintf("Departure time: %s minutes", signedMinutes(current.DepartureTime, *update.DepartureTime)))
	}
	if !update.ArrivalTime.Equal(current.ArrivalTime) {
		changes = append(changes, fmt.Sprintf("Arrival time: %s minutes", signedMinutes(current.ArrivalTime, *update.ArrivalTime)))
	}
	if *update.Status != current.Status {
		changes = append(changes, fmt.Sprintf("Status: %s → %s", current.Status, *update.Status))
	}
	if diff := *update.Price - current.Price; math.Abs(diff) > summaryPriceDelta {
		if diff > 0 {
			changes = append(changes, fmt.Sprintf("Price: +$%.2f", diff))
		} else {
			changes = append(changes, fmt.Sprintf("Price: $%.2f", diff))
		}
	}
	return changes
}

func signedMinutes(old, updated time.Time) string {
	minutes := int(math.Round(updated.Sub(old).Minutes()))
	if minutes > 0 {
		return fmt.Sprintf("+%d", minutes)
	}
	return fmt.Sprintf("%d", minutes)
}

// formatDuration renders a flight duration as "7h 45m": floor hours, floor
// remaining minutes.
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) - hours*60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func (s *flightService) SearchFlights(ctx context.Context, filters models.FlightFilters) ([]models.FlightDetails, error) {
	key := searchCacheKey(filters)
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, key); err != nil {
			log.Printf("flight cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.SearchFlights(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("error searching flights: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, key, flights); err != nil {
			log.Printf("flight cache write failed: %v", err)
		}
	}
	return flights, nil
}

// SeatMap renders the display-only seat grid: rows 1-30, letters A-F, with
// seats from non-cancelled bookings marked taken.
func (s *flightService) SeatMap(ctx context.Context, flightID uuid.UUID) (*models.SeatMap, error) {
	if _, err := s.flights.GetFlight(ctx, flightID); err != nil {
		return nil, err
	}
	taken, err := s.flights.TakenSeats(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("error fetching taken seats: %w", err)
	}
	takenSet := make(map[string]bool, len(taken))
	for _, seat := range taken {
		takenSet[seat] = true
	}

	seatMap := &models.SeatMap{FlightID: flightID, Seats: make([]models.Seat, 0, 30*6)}
	for row := 1; row <= 30; row++ {
		for letter := 'A'; letter <= 'F'; letter++ {
			number := fmt.Sprintf("%d%c", row, letter)
			seatMap.Seats = append(seatMap.Seats, models.Seat{
				Number: number,
				Taken:  takenSet[number],
			})
		}
	}
	return seatMap, nil
}

func searchCacheKey(filters models.FlightFilters) string {
	parts := []string{"flights", filters.Origin, filters.Destination}
	if !filters.DepartureDate.IsZero() {
		parts = append(parts, filters.DepartureDate.Format("2006-01-02"))
	}
	return strings.Join(parts, ":")
}
