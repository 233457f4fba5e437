package mailer

import (
	"fmt"
	"time"
)

// FlightSummary is the itinerary block shared by the booking lifecycle
// emails.
type FlightSummary struct {
	Origin        string
	Destination   string
	DepartureTime string
	ArrivalTime   string
	FlightNumber  string
	SeatNumber    string
	TotalPrice    float64
}

type BookingEmailData struct {
	To               string
	BookingReference string
	TicketURL        string
	PassengerName    string
	Flight           FlightSummary
}

type FlightChangeEmailData struct {
	To               string
	BookingReference string
	PassengerName    string
	FlightNumber     string
	Origin           string
	Destination      string
	OldDeparture     string
	NewDeparture     string
	OldArrival       string
	NewArrival       string
	OldPrice         float64
	NewPrice         float64
	OldStatus        string
	NewStatus        string
	SeatNumber       string
}

// FormatTime renders timestamps the way every email displays them.
func FormatTime(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

func RenderBookingConfirmation(data BookingEmailData) (subject, html, text string) {
	subject = fmt.Sprintf("Flight Booking Confirmed - %s", data.BookingReference)
	html = fmt.Sprintf(`%s
    <div class="header"><h1>Flight Booking Confirmed!</h1><p>Your booking has been successfully confirmed</p></div>
    <div class="content">
      <p>Dear %s,</p>
      <p>Your flight booking has been confirmed. Booking reference: <strong>%s</strong></p>
      %s
      <a class="cta-button" href="%s">View Your Ticket</a>
    </div>
%s`, htmlHead, data.PassengerName, data.BookingReference, itineraryHTML(data.Flight), data.TicketURL, htmlFoot)
	text = fmt.Sprintf(`Dear %s,

Your flight booking has been confirmed.
Booking reference: %s
%s
View your ticket: %s
`, data.PassengerName, data.BookingReference, itineraryText(data.Flight), data.TicketURL)
	return subject, html, text
}

func RenderBookingCancellation(data BookingEmailData) (subject, html, text string) {
	subject = fmt.Sprintf("Flight Booking Cancelled - %s", data.BookingReference)
	html = fmt.Sprintf(`%s
    <div class="header"><h1>Booking Cancelled</h1><p>Your booking has been cancelled</p></div>
    <div class="content">
      <p>Dear %s,</p>
      <p>Your booking <strong>%s</strong> has been cancelled. Details of the cancelled itinerary:</p>
      %s
    </div>
%s`, htmlHead, data.PassengerName, data.BookingReference, itineraryHTML(data.Flight), htmlFoot)
	text = fmt.Sprintf(`Dear %s,

Your booking %s has been cancelled. Details of the cancelled itinerary:
%s`, data.PassengerName, data.BookingReference, itineraryText(data.Flight))
	return subject, html, text
}

func RenderBookingModification(data BookingEmailData) (subject, html, text string) {
	subject = fmt.Sprintf("Flight Booking Updated - %s", data.BookingReference)
	html = fmt.Sprintf(`%s
    <div class="header"><h1>Booking Updated</h1><p>Your booking details have changed</p></div>
    <div class="content">
      <p>Dear %s,</p>
      <p>Your booking <strong>%s</strong> has been updated. Current itinerary:</p>
      %s
      <a class="cta-button" href="%s">View Your Ticket</a>
    </div>
%s`, htmlHead, data.PassengerName, data.BookingReference, itineraryHTML(data.Flight), data.TicketURL, htmlFoot)
	text = fmt.Sprintf(`Dear %s,

Your booking %s has been updated. Current itinerary:
%s
View your ticket: %s
`, data.PassengerName, data.BookingReference, itineraryText(data.Flight), data.TicketURL)
	return subject, html, text
}

// RenderFlightChange includes old and new values for every tracked field,
// changed or not, so the passenger sees the full context.
func RenderFlightChange(data FlightChangeEmailData) (subject, html, text string) {
	subject = fmt.Sprintf("Important: Flight %s Schedule Change", data.FlightNumber)
	html = fmt.Sprintf(`%s
    <div class="header"><h1>Flight Change Notice</h1><p>Your flight %s (%s to %s) has changed</p></div>
    <div class="content">
      <p>Dear %s,</p>
      <p>There has been a change to your flight. Booking reference: <strong>%s</strong>, seat <strong>%s</strong>.</p>
      <div class="booking-details">
        <table>
          <tr><th></th><th>Previous</th><th>Updated</th></tr>
          <tr><td>Departure</td><td>%s</td><td>%s</td></tr>
          <tr><td>Arrival</td><td>%s</td><td>%s</td></tr>
          <tr><td>Price</td><td>$%.2f</td><td>$%.2f</td></tr>
          <tr><td>Status</td><td>%s</td><td>%s</td></tr>
        </table>
      </div>
      <p>If the new schedule does not work for you, please manage your booking online.</p>
    </div>
%s`, htmlHead, data.FlightNumber, data.Origin, data.Destination, data.PassengerName, data.BookingReference, data.SeatNumber,
		data.OldDeparture, data.NewDeparture, data.OldArrival, data.NewArrival,
		data.OldPrice, data.NewPrice, data.OldStatus, data.NewStatus, htmlFoot)
	text = fmt.Sprintf(`Dear %s,

There has been a change to your flight %s (%s to %s).
Booking reference: %s, seat %s.

Departure: %s -> %s
Arrival:   %s -> %s
Price:     $%.2f -> $%.2f
Status:    %s -> %s

If the new schedule does not work for you, please manage your booking online.
`, data.PassengerName, data.FlightNumber, data.Origin, data.Destination, data.BookingReference, data.SeatNumber,
		data.OldDeparture, data.NewDeparture, data.OldArrival, data.NewArrival,
		data.OldPrice, data.NewPrice, data.OldStatus, data.NewStatus)
	return subject, html, text
}

func itineraryHTML(f FlightSummary) string {
	return fmt.Sprintf(`<div class="booking-details">
        <div class="info-item"><span class="info-label">Flight</span><span class="info-value">%s</span></div>
        <div class="info-item"><span class="info-label">From</span><span class="info-value">%s</span></div>
        <div class="info-item"><span class="info-label">To</span><span class="info-value">%s</span></div>
        <div class="info-item"><span class="info-label">Departure</span><span class="info-value">%s</span></div>
        <div class="info-item"><span class="info-label">Arrival</span><span class="info-value">%s</span></div>
        <div class="info-item"><span class="info-label">Seat</span><span class="info-value">%s</span></div>
        <div class="info-item"><span class="info-label">Total Price</span><span class="info-value">$%.2f</span></div>
      </div>`,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.SeatNumber, f.TotalPrice)
}

func itineraryText(f FlightSummary) string {
	return fmt.Sprintf(`
Flight:      %s
From:        %s
To:          %s
Departure:   %s
Arrival:     %s
Seat:        %s
Total Price: $%.2f
`, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.SeatNumber, f.TotalPrice)
}

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
  .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
  .booking-details { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea; }
  .info-item { padding: 8px 0; }
  .info-label { font-weight: bold; color: #667eea; font-size: 12px; text-transform: uppercase; margin-right: 10px; }
  .cta-button { display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; font-weight: bold; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #eee; }
</style>
</head>
<body>`

const htmlFoot = `    <div class="footer"><p>Thank you for flying with us.</p></div>
</body>
</html>`
