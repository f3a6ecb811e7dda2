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

type VehicleBookingHandler struct {
	svc service.VehicleBookingService
}

func NewVehicleBookingHandler(svc service.VehicleBookingService) *VehicleBookingHandler {
	return &VehicleBookingHandler{svc: svc}
}

func (h *VehicleBookingHandler) RegisterRoutes(public, admin *echo.Group) {
	public.POST("/vehicle-bookings", h.CreateBooking)
	public.PATCH("/vehicle-bookings/by-ref/:reference/cancel", h.CancelByReference)

	admin.GET("/vehicle-bookings", h.ListBookings)
	admin.GET("/vehicle-bookings/:id", h.GetBooking)
	admin.PATCH("/vehicle-bookings/:id/approve", h.ApproveBooking)
	admin.PATCH("/vehicle-bookings/:id/confirm", h.ConfirmBooking)
	admin.PATCH("/vehicle-bookings/:id/reject", h.RejectBooking)
	admin.PATCH("/vehicle-bookings/:id/cancel", h.CancelBooking)
	admin.DELETE("/vehicle-bookings/:id", h.DeleteBooking)
}

func (h *VehicleBookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateVehicleBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateVehicleBookingInput{
		Customer:       req.ToModel(),
		VehicleID:      req.VehicleID,
		PickupDate:     req.PickupDate,
		ReturnDate:     req.ReturnDate,
		PickupLocation: req.PickupLocation,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.OK(dto.ToVehicleBookingResponse(booking)))
}

func (h *VehicleBookingHandler) ApproveBooking(c echo.Context) error {
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

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleBookingResponse(booking)))
}

func (h *VehicleBookingHandler) ConfirmBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.ConfirmBooking(c.Request().Context(), id, reviewer(c, ""))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleBookingResponse(booking)))
}

func (h *VehicleBookingHandler) RejectBooking(c echo.Context) error {
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

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleBookingResponse(booking)))
}

func (h *VehicleBookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleBookingResponse(booking)))
}

func (h *VehicleBookingHandler) CancelByReference(c echo.Context) error {
	reference, err := parseReference(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBookingByReference(c.Request().Context(), reference)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleBookingResponse(booking)))
}

func (h *VehicleBookingHandler) DeleteBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	err = h.svc.DeleteBooking(c.Request().Context(), id, middleware.RoleFrom(c), reviewer(c, ""))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.Message("vehicle booking deleted"))
}

func (h *VehicleBookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleBookingResponse(booking)))
}

func (h *VehicleBookingHandler) ListBookings(c echo.Context) error {
	var filter repository.VehicleBookingFilter
	if s := c.QueryParam("vehicleId"); s != "" {
		id, err := parseQueryID(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid vehicleId")
		}
		filter.VehicleID = &id
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

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleBookingResponses(bookings)))
}
