package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AdventureHandler struct {
	svc service.AdventureService
}

func NewAdventureHandler(svc service.AdventureService) *AdventureHandler {
	return &AdventureHandler{svc: svc}
}

func (h *AdventureHandler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/adventures", h.ListAdventures)
	public.GET("/adventures/:id", h.GetAdventure)
	public.GET("/adventures/:id/availability", h.GetAvailability)

	admin.POST("/adventures", h.CreateAdventure)
	admin.PUT("/adventures/:id", h.UpdateAdventure)
	admin.DELETE("/adventures/:id", h.DeleteAdventure)
}

func (h *AdventureHandler) CreateAdventure(c echo.Context) error {
	var req dto.CreateAdventureRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	adventure := req.ToModel()
	if err := h.svc.CreateAdventure(c.Request().Context(), adventure); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.OK(dto.ToAdventureResponse(adventure)))
}

func (h *AdventureHandler) GetAdventure(c echo.Context) error {
	id, err := parseID(c, "adventure")
	if err != nil {
		return err
	}

	adventure, err := h.svc.GetAdventure(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureResponse(adventure)))
}

// ListAdventures returns only active adventures unless ?all=true.
func (h *AdventureHandler) ListAdventures(c echo.Context) error {
	activeOnly := c.QueryParam("all") != "true"

	adventures, err := h.svc.ListAdventures(c.Request().Context(), activeOnly)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureResponses(adventures)))
}

func (h *AdventureHandler) UpdateAdventure(c echo.Context) error {
	id, err := parseID(c, "adventure")
	if err != nil {
		return err
	}
	var req dto.UpdateAdventureRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	adventure, err := h.svc.UpdateAdventure(c.Request().Context(), id, service.AdventureUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Price:           req.Price,
		DurationDays:    req.DurationDays,
		StartDate:       req.StartDate,
		MaxParticipants: req.MaxParticipants,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAdventureResponse(adventure)))
}

func (h *AdventureHandler) DeleteAdventure(c echo.Context) error {
	id, err := parseID(c, "adventure")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteAdventure(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.Message("adventure deleted"))
}

func (h *AdventureHandler) GetAvailability(c echo.Context) error {
	id, err := parseID(c, "adventure")
	if err != nil {
		return err
	}

	availability, err := h.svc.GetAvailability(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToAvailabilityResponse(availability)))
}
