package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AdventureBookingHandler struct {
	svc service.BookingService
}

func NewAdventureBookingHandler(svc service.BookingService) *AdventureBookingHandler {
	return &AdventureBookingHandler{svc: svc}
}

func (h *AdventureBookingHandler) RegisterRoutes(public, admin *echo.Group) {
	public.POST("/adventure-bookings", h.CreateBooking)
	public.PATCH("/adventure-bookings/by-ref/:reference/cancel", h.CancelByReference)

	admin.GET("/adventure-bookings", h.ListBookings)
	admin.GET("/adventure-bookings/:id", h.GetBooking)
	admin.PATCH("/adventure-bookings/:id/approve", h.ApproveBooking)
	admin.PATCH("/adventure-bookings/:id/reject", h.RejectBooking)
	admin.PATCH("/adventure-bookings/:id/cancel", h.CancelBooking)
	admin.DELETE("/adventure-bookings/:id", h.DeleteBooking)
}

func (h *AdventureBookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateAdventureBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.NumberOfParticipants < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, service.ErrInvalidParticipants.Error())
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		Customer:             req.ToModel(),
		AdventureRef:         string(req.AdventureID),
		NumberOfParticipants: req.NumberOfParticipants,
		PreferredDate:        req.PreferredDate,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.OK(dto.ToAdventureBookingResponse(booking)))
}

func (h *AdventureBookingHandler) ApproveBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}
	var req dto.ApproveBookingRequest
	if err := bindOptional(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.ApproveBooking(c.Request().Context(), id, reviewer(c, req.ApprovedBy))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureBookingResponse(booking)))
}

func (h *AdventureBookingHandler) RejectBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}
	var req dto.RejectBookingRequest
	if err := bindOptional(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.RejectBooking(c.Request().Context(), id, reviewer(c, req.RejectedBy), req.RejectionReason)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureBookingResponse(booking)))
}

func (h *AdventureBookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureBookingResponse(booking)))
}

// CancelByReference lets a customer withdraw a pending booking using the reference returned at creation.
func (h *AdventureBookingHandler) CancelByReference(c echo.Context) error {
	reference, err := parseReference(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBookingByReference(c.Request().Context(), reference)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureBookingResponse(booking)))
}

func (h *AdventureBookingHandler) DeleteBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteBooking(c.Request().Context(), id, reviewer(c, "")); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.Message("booking deleted"))
}

func (h *AdventureBookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureBookingResponse(booking)))
}

func (h *AdventureBookingHandler) ListBookings(c echo.Context) error {
	var filter repository.BookingFilter
	if s := c.QueryParam("adventureId"); s != "" {
		id, err := parseQueryID(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid adventureId")
		}
		filter.AdventureID = &id
	}
	if s := c.QueryParam("status"); s != "" {
		status := models.BookingStatus(s)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = &status
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureBookingResponses(bookings)))
}

// reviewer prefers the explicit name from the body, then the token subject.
func reviewer(c echo.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return middleware.SubjectFrom(c)
}
