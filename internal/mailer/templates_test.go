package mailer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/skybook/skybook/internal/mailer"
	"github.com/stretchr/testify/assert"
)

func testEmailData() mailer.BookingEmailData {
	return mailer.BookingEmailData{
		To:               "user@example.com",
		BookingReference: "A1B2C3D4",
		TicketURL:        "https://skybook.example.com/tickets/abc",
		PassengerName:    "John Doe",
		Flight: mailer.FlightSummary{
			Origin:        "London",
			Destination:   "Paris",
			DepartureTime: "Feb 15, 2024 2:30 PM",
			ArrivalTime:   "Feb 15, 2024 4:45 PM",
			FlightNumber:  "SB101",
			SeatNumber:    "12A",
			TotalPrice:    299.99,
		},
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 2, 15, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Feb 15, 2024 2:30 PM", mailer.FormatTime(ts))
}

func TestRenderBookingConfirmation(t *testing.T) {
	subject, html, text := mailer.RenderBookingConfirmation(testEmailData())

	assert.Equal(t, "Flight Booking Confirmed - A1B2C3D4", subject)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Dear John Doe")
	assert.Contains(t, html, "A1B2C3D4")
	assert.Contains(t, html, "SB101")
	assert.Contains(t, html, "$299.99")
	assert.Contains(t, html, `href="https://skybook.example.com/tickets/abc"`)
	assert.Contains(t, text, "Booking reference: A1B2C3D4")
	assert.Contains(t, text, "Seat:        12A")
	assert.NotContains(t, text, "<div")
}

func TestRenderBookingCancellation(t *testing.T) {
	subject, html, text := mailer.RenderBookingCancellation(testEmailData())

	assert.Equal(t, "Flight Booking Cancelled - A1B2C3D4", subject)
	assert.Contains(t, html, "Booking Cancelled")
	assert.Contains(t, text, "has been cancelled")
	// a cancelled booking has no ticket link
	assert.NotContains(t, html, "cta-button")
}

func TestRenderBookingModification(t *testing.T) {
	subject, html, text := mailer.RenderBookingModification(testEmailData())

	assert.Equal(t, "Flight Booking Updated - A1B2C3D4", subject)
	assert.Contains(t, html, "Booking Updated")
	assert.Contains(t, text, "Current itinerary:")
	assert.Contains(t, html, `href="https://skybook.example.com/tickets/abc"`)
}

func TestRenderFlightChange(t *testing.T) {
	data := mailer.FlightChangeEmailData{
		To:               "user@example.com",
		BookingReference: "A1B2C3D4",
		PassengerName:    "John Doe",
		FlightNumber:     "SB101",
		Origin:           "London",
		Destination:      "Paris",
		OldDeparture:     "Feb 15, 2024 2:30 PM",
		NewDeparture:     "Feb 15, 2024 3:30 PM",
		OldArrival:       "Feb 15, 2024 4:45 PM",
		NewArrival:       "Feb 15, 2024 4:45 PM",
		OldPrice:         299.99,
		NewPrice:         349.99,
		OldStatus:        "SCHEDULED",
		NewStatus:        "DELAYED",
		SeatNumber:       "TBD",
	}

	subject, html, text := mailer.RenderFlightChange(data)

	assert.Equal(t, "Important: Flight SB101 Schedule Change", subject)
	assert.Contains(t, html, "SB101 (London to Paris)")
	assert.Contains(t, html, "seat <strong>TBD</strong>")
	// old and new values both appear even for unchanged fields
	assert.Contains(t, html, "$299.99")
	assert.Contains(t, html, "$349.99")
	assert.Contains(t, html, "<td>SCHEDULED</td><td>DELAYED</td>")
	assert.Contains(t, text, "Price:     $299.99 -> $349.99")
	assert.Contains(t, text, "Status:    SCHEDULED -> DELAYED")
}
