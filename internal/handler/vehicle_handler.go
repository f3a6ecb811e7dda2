package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/labstack/echo/v4"
)

type VehicleHandler struct {
	svc service.VehicleService
}

func NewVehicleHandler(svc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

func (h *VehicleHandler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/vehicles", h.ListVehicles)
	public.GET("/vehicles/:id", h.GetVehicle)

	admin.POST("/vehicles", h.CreateVehicle)
	admin.PATCH("/vehicles/:id/availability", h.SetAvailability)
}

func (h *VehicleHandler) CreateVehicle(c echo.Context) error {
	var req dto.CreateVehicleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	vehicle := req.ToModel()
	if err := h.svc.CreateVehicle(c.Request().Context(), vehicle); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.OK(dto.ToVehicleResponse(vehicle)))
}

func (h *VehicleHandler) GetVehicle(c echo.Context) error {
	id, err := parseID(c, "vehicle")
	if err != nil {
		return err
	}

	vehicle, err := h.svc.GetVehicle(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleResponse(vehicle)))
}

func (h *VehicleHandler) ListVehicles(c echo.Context) error {
	availableOnly := c.QueryParam("available") == "true"

	vehicles, err := h.svc.ListVehicles(c.Request().Context(), availableOnly)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleResponses(vehicles)))
}

func (h *VehicleHandler) SetAvailability(c echo.Context) error {
	id, err := parseID(c, "vehicle")
	if err != nil {
		return err
	}
	var req dto.SetAvailabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Availability == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "availability is required")
	}

	vehicle, err := h.svc.SetAvailability(c.Request().Context(), id, *req.Availability)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToVehicleResponse(vehicle)))
}
