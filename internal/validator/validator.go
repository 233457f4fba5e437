package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	models "github.com/skybook/skybook/internal"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("gender", validateGender)
	v.RegisterValidation("past_date", validatePastDate)
	v.RegisterValidation("passport", validatePassport)
	v.RegisterValidation("flight_status", validateFlightStatus)
	v.RegisterValidation("airport_code", validateAirportCode)

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validatePastDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.Before(time.Now())
}

func validateGender(fl validator.FieldLevel) bool {
	supportedGenders := map[string]bool{
		"Male":   true,
		"Female": true,
		"Other":  true,
	}
	return supportedGenders[fl.Field().String()]
}

var passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,9}$`)

func validatePassport(fl validator.FieldLevel) bool {
	return passportPattern.MatchString(fl.Field().String())
}

func validateFlightStatus(fl validator.FieldLevel) bool {
	status := models.FlightStatus(fl.Field().String())
	switch status {
	case models.FlightScheduled, models.FlightDelayed, models.FlightCancelled, models.FlightBoarding:
		return true
	}
	return false
}

var airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

func validateAirportCode(fl validator.FieldLevel) bool {
	return airportCodePattern.MatchString(fl.Field().String())
}
