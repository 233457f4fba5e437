package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	models "github.com/skybook/skybook/internal"
	"github.com/skybook/skybook/internal/ports"
	"github.com/skybook/skybook/internal/utils"
	"github.com/skybook/skybook/internal/validator"
)

func BookingHandler(service ports.BookingService, verifier ports.AuthVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := authenticate(r, verifier)
		if err != nil {
			ae := utils.NewUnauthorized("not authenticated")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		switch r.Method {
		case http.MethodPost:
			createBooking(service, caller, w, r)
		case http.MethodGet:
			listBookings(service, caller, w, r)
		case http.MethodPatch:
			updateBooking(service, caller, w, r)
		}
	}
}

func createBooking(service ports.BookingService, caller models.Identity, w http.ResponseWriter, r *http.Request) {
	var bookingRequest models.BookingRequest
	if err := utils.JsonDecodeBody(r, &bookingRequest); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	v := validator.NewCustomValidator()
	if err := v.Validate(bookingRequest); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	ans, err := service.CreateBooking(r.Context(), caller, &bookingRequest)
	if err != nil {
		ae := getApiError(err)
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(r, w, http.StatusCreated, ans)
}

func listBookings(service ports.BookingService, caller models.Identity, w http.ResponseWriter, r *http.Request) {
	ans, err := service.UserBookings(r.Context(), caller)
	if err != nil {
		ae := getApiError(err)
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(r, w, http.StatusOK, ans)
}

func updateBooking(service ports.BookingService, caller models.Identity, w http.ResponseWriter, r *http.Request) {
	var req models.BookingUpdateRequest
	if err := utils.JsonDecodeBody(r, &req); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	v := validator.NewCustomValidator()
	if err := v.Validate(req); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	var err error
	switch req.Action {
	case "cancel":
		err = service.CancelBooking(r.Context(), caller, req.BookingID)
	case "modify":
		err = service.ModifyBooking(r.Context(), caller, req.BookingID, req.Update)
	}
	if err != nil {
		ae := getApiError(err)
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(r, w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Booking " + pastTense(req.Action) + ".",
	})
}

func TicketHandler(service ports.BookingService, verifier ports.AuthVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := authenticate(r, verifier)
		if err != nil {
			ae := utils.NewUnauthorized("not authenticated")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		id, err := uuid.Parse(lastPathSegment(r))
		if err != nil {
			ae := utils.NewBadRequest("invalid ticket id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		details, err := service.TicketDetails(r.Context(), caller, id)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, details)
	}
}

func FlightsHandler(service ports.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := models.FlightFilters{
			Origin:      r.URL.Query().Get("origin"),
			Destination: r.URL.Query().Get("destination"),
		}
		if date := r.URL.Query().Get("date"); date != "" {
			parsed, err := time.Parse("2006-01-02", date)
			if err != nil {
				ae := utils.NewBadRequest("invalid date, expected YYYY-MM-DD")
				utils.RenderResponse(r, w, ae.StatusCode, ae)
				return
			}
			filters.DepartureDate = parsed
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(filters); err != nil {
			ae := utils.NewBadRequest("invalid airport code, expected three uppercase letters")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		flights, err := service.SearchFlights(r.Context(), filters)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, map[string]interface{}{"flights": flights})
	}
}

// SeatsHandler serves /v1/flights/{id}/seats, the display-only seat map.
func SeatsHandler(service ports.FlightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// v1 / flights / {id} / seats
		if len(parts) != 4 || parts[3] != "seats" {
			utils.RenderResponse(r, w, http.StatusNotFound, nil)
			return
		}
		id, err := uuid.Parse(parts[2])
		if err != nil {
			ae := utils.NewBadRequest("invalid flight id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		seatMap, err := service.SeatMap(r.Context(), id)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, seatMap)
	}
}

func AdminFlightHandler(service ports.FlightService, verifier ports.AuthVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := authenticate(r, verifier)
		if err != nil {
			ae := utils.NewUnauthorized("not authenticated")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		id, err := uuid.Parse(lastPathSegment(r))
		if err != nil {
			ae := utils.NewBadRequest("invalid flight id")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		var update models.FlightUpdateRequest
		if err := utils.JsonDecodeBody(r, &update); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(update); err != nil {
			ae := utils.NewBadRequest("missing required fields")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		result, err := service.UpdateFlight(r.Context(), caller, id, update)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, result)
	}
}

func authenticate(r *http.Request, verifier ports.AuthVerifier) (models.Identity, error) {
	token := utils.BearerToken(r)
	if token == "" {
		return models.Identity{}, models.ErrUnauthenticated
	}
	identity, err := verifier.Verify(r.Context(), token)
	if err != nil {
		return models.Identity{}, models.ErrUnauthenticated
	}
	return *identity, nil
}

func lastPathSegment(r *http.Request) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	return parts[len(parts)-1]
}

func pastTense(action string) string {
	if action == "cancel" {
		return "cancelled"
	}
	return "modified"
}

func getApiError(err error) utils.ApiError {
	ae := utils.ApiError{Msg: err.Error()}
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		ae.StatusCode = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		ae.StatusCode = http.StatusForbidden
	case errors.Is(err, models.ErrFlightNotFound), errors.Is(err, models.ErrBookingNotFound):
		ae.StatusCode = http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		ae.StatusCode = http.StatusBadRequest
	case errors.Is(err, models.ErrNoSeats):
		ae.StatusCode = http.StatusConflict
	default:
		ae.StatusCode = http.StatusInternalServerError
	}
	return ae
}
