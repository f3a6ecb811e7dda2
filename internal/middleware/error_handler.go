package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every failure as {success:false, error, ...detail}.
// A CapacityError wrapped as the HTTPError's internal error adds availableSeats.
func ErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case string:
				msg = m
			case error:
				msg = m.Error()
			default:
				msg = fmt.Sprint(m)
			}
		}

		resp := dto.ErrorResponse{Success: false, Error: msg}
		var ce *service.CapacityError
		if errors.As(err, &ce) && ce.Resource == "" {
			available := ce.Available
			resp.AvailableSeats = &available
		}

		if code >= http.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"uri":        c.Request().RequestURI,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"error":      err.Error(),
			}).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, resp)
		}
		if err != nil {
			logger.WithError(err).Warn("failed to write error response")
		}
	}
}
