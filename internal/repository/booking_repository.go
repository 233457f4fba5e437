package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	models "github.com/skybook/skybook/internal"
)

type DBConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

type BookingRepository struct {
	db DBConn
}

func NewBookingRepository(db DBConn) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateBooking inserts the booking and its passenger and decrements the
// flight's seat counter in a single transaction. The decrement is guarded by
// the availability check at the store level, so two concurrent bookings for
// the last seat cannot both commit.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking, passenger *models.Passenger) (*models.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `
        UPDATE flights
        SET available_seats = available_seats - 1, updated_at = now()
        WHERE id = $1 AND available_seats > 0
    `, booking.FlightID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, models.ErrNoSeats
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.BookingStatus = models.StatusConfirmed
	booking.CreatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `
        INSERT INTO bookings (id, booking_reference, user_id, flight_id, booking_status, total_price, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, booking.ID, booking.BookingReference, booking.UserID, booking.FlightID, booking.BookingStatus, booking.TotalPrice, booking.CreatedAt)
	if err != nil {
		return nil, err
	}

	if passenger.ID == uuid.Nil {
		passenger.ID = uuid.New()
	}
	passenger.BookingID = booking.ID
	_, err = tx.Exec(ctx, `
        INSERT INTO passengers (id, booking_id, full_name, date_of_birth, gender, nationality, passport_number, seat_number)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, passenger.ID, passenger.BookingID, passenger.FullName, passenger.DateOfBirth, passenger.Gender,
		passenger.Nationality, passenger.PassportNumber, passenger.SeatNumber)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, booking_reference, user_id, flight_id, booking_status, total_price, COALESCE(ticket_url, ''), created_at, updated_at
        FROM bookings WHERE id = $1
    `, id)
	var b models.Booking
	err := row.Scan(&b.ID, &b.BookingReference, &b.UserID, &b.FlightID, &b.BookingStatus, &b.TotalPrice, &b.TicketURL, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetBookingDetails returns the denormalized booking view used by the
// lifecycle emails: passenger, owner email, flight and airport names.
func (r *BookingRepository) GetBookingDetails(ctx context.Context, id uuid.UUID) (*models.BookingDetails, error) {
	row := r.db.QueryRow(ctx, `
        SELECT
            B.id, B.booking_reference, B.user_id, B.flight_id, B.booking_status, B.total_price, COALESCE(B.ticket_url, ''), B.created_at, B.updated_at,
            U.email, P.full_name, P.seat_number,
            F.flight_number, F.departure_time, F.arrival_time,
            O.id, O.city, O.code,
            D.id, D.city, D.code
        FROM bookings B
        JOIN user_profiles U ON U.id = B.user_id
        JOIN passengers P ON P.booking_id = B.id
        JOIN flights F ON F.id = B.flight_id
        JOIN airports O ON O.id = F.origin_airport_id
        JOIN airports D ON D.id = F.destination_airport_id
        WHERE B.id = $1
    `, id)

	var d models.BookingDetails
	err := row.Scan(
		&d.ID, &d.BookingReference, &d.UserID, &d.FlightID, &d.BookingStatus, &d.TotalPrice, &d.TicketURL, &d.CreatedAt, &d.UpdatedAt,
		&d.OwnerEmail, &d.PassengerName, &d.SeatNumber,
		&d.FlightNumber, &d.DepartureTime, &d.ArrivalTime,
		&d.Origin.ID, &d.Origin.City, &d.Origin.Code,
		&d.Destination.ID, &d.Destination.City, &d.Destination.Code,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *BookingRepository) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]models.UserBooking, error) {
	rows, err := r.db.Query(ctx, `
        SELECT
            B.id, B.booking_reference, B.user_id, B.flight_id, B.booking_status, B.total_price, COALESCE(B.ticket_url, ''), B.created_at, B.updated_at,
            F.flight_number, F.departure_time, F.arrival_time, F.duration, F.price, F.available_seats, F.status,
            A.id, A.name, COALESCE(A.logo_url, ''),
            O.id, O.city, O.code,
            D.id, D.city, D.code,
            P.id, P.full_name, P.date_of_birth, P.gender, P.nationality, P.passport_number, P.seat_number
        FROM bookings B
        JOIN flights F ON F.id = B.flight_id
        JOIN airlines A ON A.id = F.airline_id
        JOIN airports O ON O.id = F.origin_airport_id
        JOIN airports D ON D.id = F.destination_airport_id
        JOIN passengers P ON P.booking_id = B.id
        WHERE B.user_id = $1
        ORDER BY B.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.UserBooking
	for rows.Next() {
		var ub models.UserBooking
		err := rows.Scan(
			&ub.ID, &ub.BookingReference, &ub.UserID, &ub.FlightID, &ub.BookingStatus, &ub.TotalPrice, &ub.TicketURL, &ub.CreatedAt, &ub.UpdatedAt,
			&ub.Flight.FlightNumber, &ub.Flight.DepartureTime, &ub.Flight.ArrivalTime, &ub.Flight.Duration, &ub.Flight.Price, &ub.Flight.AvailableSeats, &ub.Flight.Status,
			&ub.Airline.ID, &ub.Airline.Name, &ub.Airline.LogoURL,
			&ub.Flight.Origin.ID, &ub.Flight.Origin.City, &ub.Flight.Origin.Code,
			&ub.Flight.Destination.ID, &ub.Flight.Destination.City, &ub.Flight.Destination.Code,
			&ub.Passenger.ID, &ub.Passenger.FullName, &ub.Passenger.DateOfBirth, &ub.Passenger.Gender, &ub.Passenger.Nationality, &ub.Passenger.PassportNumber, &ub.Passenger.SeatNumber,
		)
		if err != nil {
			return nil, err
		}
		ub.Flight.ID = ub.FlightID
		ub.Flight.AirlineName = ub.Airline.Name
		ub.Passenger.BookingID = ub.ID
		bookings = append(bookings, ub)
	}
	return bookings, rows.Err()
}

// SetTicketURL back-fills the ticket path after the booking transaction has
// committed. Deliberately outside that transaction.
func (r *BookingRepository) SetTicketURL(ctx context.Context, id uuid.UUID, ticketURL string) error {
	_, err := r.db.Exec(ctx, `UPDATE bookings SET ticket_url = $1, updated_at = now() WHERE id = $2`, ticketURL, id)
	return err
}

func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	res, err := r.db.Exec(ctx, `UPDATE bookings SET booking_status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) UpdateBookingFlight(ctx context.Context, id uuid.UUID, flightID uuid.UUID) error {
	res, err := r.db.Exec(ctx, `UPDATE bookings SET flight_id = $1, updated_at = now() WHERE id = $2`, flightID, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

// UpdatePassenger applies an already allow-listed set of passenger fields.
// The SET clause is built from the map keys; callers own the allow-listing.
func (r *BookingRepository) UpdatePassenger(ctx context.Context, bookingID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	var assignments []string
	var args []interface{}
	i := 1
	for _, col := range []string{"full_name", "nationality", "passport_number"} {
		if v, ok := fields[col]; ok {
			assignments = append(assignments, fmt.Sprintf("%s = $%d", col, i))
			args = append(args, v)
			i++
		}
	}
	if len(assignments) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE passengers SET %s WHERE booking_id = $%d", strings.Join(assignments, ", "), i)
	args = append(args, bookingID)
	_, err := r.db.Exec(ctx, query, args...)
	return err
}
