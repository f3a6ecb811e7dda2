package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps service errors onto status codes. The original error stays
// attached as Internal so the error handler can read capacity details.
func toHTTPError(err error) *echo.HTTPError {
	var ce *service.CapacityError
	switch {
	case errors.As(err, &ce):
		return echo.NewHTTPError(http.StatusBadRequest, ce.Error()).SetInternal(ce)
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrAdventureNotFound),
		errors.Is(err, service.ErrVehicleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAlreadyApproved),
		errors.Is(err, service.ErrBookingCancelled),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAdventureInUse),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrAdventureInactive),
		errors.Is(err, service.ErrInvalidParticipants),
		errors.Is(err, service.ErrInvalidRentalPeriod):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}

func parseID(c echo.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+what+" id")
	}
	return uint(id), nil
}

// parseReference accepts only booking references in their canonical uuid form.
func parseReference(c echo.Context) (string, error) {
	ref, err := uuid.Parse(c.Param("reference"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid booking reference")
	}
	return ref.String(), nil
}

// bindAndValidate binds the body and runs the registered validator, if any.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// bindOptional accepts an empty body for transitions whose fields are all optional.
func bindOptional(c echo.Context, req any) error {
	if c.Request().ContentLength == 0 {
		return nil
	}
	return bindAndValidate(c, req)
}

func parseQueryID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
