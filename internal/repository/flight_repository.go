package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	models "github.com/skybook/skybook/internal"
)

type FlightRepository struct {
	db DBConn
}

func NewFlightRepository(db DBConn) *FlightRepository {
	return &FlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline_id, origin_airport_id, destination_airport_id,
            departure_time, arrival_time, duration, price, available_seats, status,
            COALESCE(cabin_class, ''), COALESCE(aircraft_type, ''), created_at, updated_at`

func (r *FlightRepository) GetFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error) {
	row := r.db.QueryRow(ctx, `
        SELECT `+flightColumns+`
        FROM flights WHERE id = $1
    `, id)
	var f models.Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.AirlineID, &f.OriginAirportID, &f.DestinationAirportID,
		&f.DepartureTime, &f.ArrivalTime, &f.Duration, &f.Price, &f.AvailableSeats, &f.Status,
		&f.CabinClass, &f.AircraftType, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetFlightDetails fetches a flight joined to its airline and airport display
// names, the shape the admin update reads before mutating.
func (r *FlightRepository) GetFlightDetails(ctx context.Context, id uuid.UUID) (*models.FlightDetails, error) {
	row := r.db.QueryRow(ctx, `
        SELECT
            F.id, F.flight_number, F.airline_id, F.origin_airport_id, F.destination_airport_id,
            F.departure_time, F.arrival_time, F.duration, F.price, F.available_seats, F.status,
            COALESCE(F.cabin_class, ''), COALESCE(F.aircraft_type, ''), F.created_at, F.updated_at,
            A.name,
            O.id, O.city, O.code,
            D.id, D.city, D.code
        FROM flights F
        JOIN airlines A ON A.id = F.airline_id
        JOIN airports O ON O.id = F.origin_airport_id
        JOIN airports D ON D.id = F.destination_airport_id
        WHERE F.id = $1
    `, id)

	var d models.FlightDetails
	err := row.Scan(
		&d.ID, &d.FlightNumber, &d.AirlineID, &d.OriginAirportID, &d.DestinationAirportID,
		&d.DepartureTime, &d.ArrivalTime, &d.Duration, &d.Price, &d.AvailableSeats, &d.Status,
		&d.CabinClass, &d.AircraftType, &d.CreatedAt, &d.UpdatedAt,
		&d.AirlineName,
		&d.Origin.ID, &d.Origin.City, &d.Origin.Code,
		&d.Destination.ID, &d.Destination.City, &d.Destination.Code,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrFlightNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *FlightRepository) SearchFlights(ctx context.Context, filters models.FlightFilters) ([]models.FlightDetails, error) {
	query := `
        SELECT
            F.id, F.flight_number, F.airline_id, F.origin_airport_id, F.destination_airport_id,
            F.departure_time, F.arrival_time, F.duration, F.price, F.available_seats, F.status,
            COALESCE(F.cabin_class, ''), COALESCE(F.aircraft_type, ''), F.created_at, F.updated_at,
            A.name,
            O.id, O.city, O.code,
            D.id, D.city, D.code
        FROM flights F
        JOIN airlines A ON A.id = F.airline_id
        JOIN airports O ON O.id = F.origin_airport_id
        JOIN airports D ON D.id = F.destination_airport_id
    `
	var args []interface{}
	var conditions []string

	if filters.Origin != "" {
		conditions = append(conditions, fmt.Sprintf("O.code = $%d", len(args)+1))
		args = append(args, filters.Origin)
	}
	if filters.Destination != "" {
		conditions = append(conditions, fmt.Sprintf("D.code = $%d", len(args)+1))
		args = append(args, filters.Destination)
	}
	if !filters.DepartureDate.IsZero() {
		conditions = append(conditions, fmt.Sprintf("F.departure_time::date = $%d::date", len(args)+1))
		args = append(args, filters.DepartureDate)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY F.departure_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []models.FlightDetails
	for rows.Next() {
		var d models.FlightDetails
		err := rows.Scan(
			&d.ID, &d.FlightNumber, &d.AirlineID, &d.OriginAirportID, &d.DestinationAirportID,
			&d.DepartureTime, &d.ArrivalTime, &d.Duration, &d.Price, &d.AvailableSeats, &d.Status,
			&d.CabinClass, &d.AircraftType, &d.CreatedAt, &d.UpdatedAt,
			&d.AirlineName,
			&d.Origin.ID, &d.Origin.City, &d.Origin.Code,
			&d.Destination.ID, &d.Destination.City, &d.Destination.Code,
		)
		if err != nil {
			return nil, err
		}
		flights = append(flights, d)
	}
	return flights, rows.Err()
}

func (r *FlightRepository) UpdateFlight(ctx context.Context, id uuid.UUID, update models.FlightUpdateRequest, duration string) error {
	res, err := r.db.Exec(ctx, `
        UPDATE flights
        SET departure_time = $1, arrival_time = $2, duration = $3, price = $4,
            available_seats = $5, status = $6, updated_at = now()
        WHERE id = $7
    `, *update.DepartureTime, *update.ArrivalTime, duration, *update.Price, *update.AvailableSeats, *update.Status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return models.ErrFlightNotFound
	}
	return nil
}

// ConfirmedBookingContacts enumerates every CONFIRMED booking on a flight
// joined to the owner's email/name and the passenger's name and seat.
func (r *FlightRepository) ConfirmedBookingContacts(ctx context.Context, flightID uuid.UUID) ([]models.ConfirmedBookingContact, error) {
	rows, err := r.db.Query(ctx, `
        SELECT B.id, B.booking_reference, U.email, U.full_name, P.full_name, COALESCE(P.seat_number, '')
        FROM bookings B
        JOIN user_profiles U ON U.id = B.user_id
        JOIN passengers P ON P.booking_id = B.id
        WHERE B.flight_id = $1 AND B.booking_status = $2
    `, flightID, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.ConfirmedBookingContact
	for rows.Next() {
		var c models.ConfirmedBookingContact
		if err := rows.Scan(&c.BookingID, &c.BookingReference, &c.UserEmail, &c.UserName, &c.PassengerName, &c.SeatNumber); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// TakenSeats lists seat numbers held by passengers of non-cancelled bookings.
// Display-only: nothing enforces uniqueness against it at booking time.
func (r *FlightRepository) TakenSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `
        SELECT P.seat_number
        FROM passengers P
        JOIN bookings B ON B.id = P.booking_id
        WHERE B.flight_id = $1 AND B.booking_status <> $2
    `, flightID, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
