package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	models "github.com/skybook/skybook/internal"
	"github.com/skybook/skybook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	decrementSeatsQuery = `UPDATE flights\s+SET available_seats = available_seats - 1, updated_at = now\(\)\s+WHERE id = \$1 AND available_seats > 0`
	insertBookingQuery   = `INSERT INTO bookings \(id, booking_reference, user_id, flight_id, booking_status, total_price, created_at\)`
	insertPassengerQuery = `INSERT INTO passengers \(id, booking_id, full_name, date_of_birth, gender, nationality, passport_number, seat_number\)`
)

func testBooking(flightID uuid.UUID) (*models.Booking, *models.Passenger) {
	booking := &models.Booking{
		BookingReference: "A1B2C3D4",
		UserID:           uuid.New(),
		FlightID:         flightID,
		TotalPrice:       299.99,
	}
	passenger := &models.Passenger{
		FullName:       "John Doe",
		DateOfBirth:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:         "Male",
		Nationality:    "British",
		PassportNumber: "AB123456",
		SeatNumber:     "12A",
	}
	return booking, passenger
}

func TestCreateBooking(t *testing.T) {
	flightID := uuid.New()

	t.Run("Successful booking commits all three statements", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		booking, passenger := testBooking(flightID)

		mock.ExpectBegin()
		mock.ExpectExec(decrementSeatsQuery).
			WithArgs(flightID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(insertBookingQuery).
			WithArgs(pgxmock.AnyArg(), booking.BookingReference, booking.UserID, booking.FlightID,
				models.StatusConfirmed, booking.TotalPrice, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertPassengerQuery).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), passenger.FullName, passenger.DateOfBirth,
				passenger.Gender, passenger.Nationality, passenger.PassportNumber, passenger.SeatNumber).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		repo := repository.NewBookingRepository(mock)
		created, err := repo.CreateBooking(context.Background(), booking, passenger)

		assert.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, models.StatusConfirmed, created.BookingStatus)
		assert.Equal(t, created.ID, passenger.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Sold-out flight rolls back with ErrNoSeats", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		booking, passenger := testBooking(flightID)

		mock.ExpectBegin()
		mock.ExpectExec(decrementSeatsQuery).
			WithArgs(flightID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		repo := repository.NewBookingRepository(mock)
		created, err := repo.CreateBooking(context.Background(), booking, passenger)

		assert.ErrorIs(t, err, models.ErrNoSeats)
		assert.Nil(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Passenger insert failure rolls back the whole transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		booking, passenger := testBooking(flightID)

		mock.ExpectBegin()
		mock.ExpectExec(decrementSeatsQuery).
			WithArgs(flightID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(insertBookingQuery).
			WithArgs(pgxmock.AnyArg(), booking.BookingReference, booking.UserID, booking.FlightID,
				models.StatusConfirmed, booking.TotalPrice, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertPassengerQuery).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), passenger.FullName, passenger.DateOfBirth,
				passenger.Gender, passenger.Nationality, passenger.PassportNumber, passenger.SeatNumber).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		repo := repository.NewBookingRepository(mock)
		created, err := repo.CreateBooking(context.Background(), booking, passenger)

		assert.Error(t, err)
		assert.Nil(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingByID(t *testing.T) {
	bookingID := uuid.New()

	t.Run("Found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		now := time.Now().UTC()
		rows := pgxmock.NewRows([]string{
			"id", "booking_reference", "user_id", "flight_id", "booking_status", "total_price", "ticket_url", "created_at", "updated_at",
		}).AddRow(bookingID, "A1B2C3D4", uuid.New(), uuid.New(), models.StatusConfirmed, 299.99, "/tickets/"+bookingID.String(), now, now)

		mock.ExpectQuery(`SELECT id, booking_reference, user_id, flight_id, booking_status, total_price, COALESCE\(ticket_url, ''\), created_at, updated_at`).
			WithArgs(bookingID).
			WillReturnRows(rows)

		repo := repository.NewBookingRepository(mock)
		booking, err := repo.GetBookingByID(context.Background(), bookingID)

		assert.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, "A1B2C3D4", booking.BookingReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing booking maps to ErrBookingNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, booking_reference`).
			WithArgs(bookingID).
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		repo := repository.NewBookingRepository(mock)
		booking, err := repo.GetBookingByID(context.Background(), bookingID)

		assert.ErrorIs(t, err, models.ErrBookingNotFound)
		assert.Nil(t, booking)
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	bookingID := uuid.New()

	t.Run("Updates the row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE bookings SET booking_status = \$1, updated_at = now\(\) WHERE id = \$2`).
			WithArgs(models.StatusCancelled, bookingID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := repository.NewBookingRepository(mock)
		assert.NoError(t, repo.UpdateBookingStatus(context.Background(), bookingID, models.StatusCancelled))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero rows means the booking is gone", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE bookings SET booking_status`).
			WithArgs(models.StatusCancelled, bookingID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := repository.NewBookingRepository(mock)
		err = repo.UpdateBookingStatus(context.Background(), bookingID, models.StatusCancelled)
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})
}

func TestUpdatePassenger(t *testing.T) {
	bookingID := uuid.New()

	t.Run("Builds the SET clause in column order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE passengers SET full_name = \$1, passport_number = \$2 WHERE booking_id = \$3`).
			WithArgs("Jane Doe", "XY987654", bookingID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := repository.NewBookingRepository(mock)
		err = repo.UpdatePassenger(context.Background(), bookingID, map[string]interface{}{
			"full_name":       "Jane Doe",
			"passport_number": "XY987654",
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty field map is a no-op", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewBookingRepository(mock)
		assert.NoError(t, repo.UpdatePassenger(context.Background(), bookingID, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown columns are ignored", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewBookingRepository(mock)
		err = repo.UpdatePassenger(context.Background(), bookingID, map[string]interface{}{
			"seat_number": "1A",
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
