package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/audit"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/notify"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/labstack/echo/v4"
)

type HistoryReader interface {
	History(ctx context.Context, kind string, bookingID uint) ([]audit.Entry, error)
}

type AdminHandler struct {
	reconciler service.SeatReconciler
	history    HistoryReader
}

// NewAdminHandler accepts a nil history reader when the audit store is disabled.
func NewAdminHandler(reconciler service.SeatReconciler, history HistoryReader) *AdminHandler {
	return &AdminHandler{reconciler: reconciler, history: history}
}

func (h *AdminHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/admin/reconcile", h.ReconcileAll)
	admin.POST("/admin/adventures/:id/reconcile", h.ReconcileAdventure)
	admin.GET("/admin/bookings/:kind/:id/history", h.BookingHistory)
}

func (h *AdminHandler) ReconcileAll(c echo.Context) error {
	summary, err := h.reconciler.ReconcileAll(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.ToReconcileSummaryResponse(summary)))
}

func (h *AdminHandler) ReconcileAdventure(c echo.Context) error {
	id, err := parseID(c, "adventure")
	if err != nil {
		return err
	}

	report, err := h.reconciler.ReconcileAdventure(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.ToDriftReportResponse(report)))
}

func (h *AdminHandler) BookingHistory(c echo.Context) error {
	if h.history == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "audit trail is not enabled")
	}

	kind := notify.BookingKind(c.Param("kind"))
	if kind != notify.KindAdventure && kind != notify.KindVehicle {
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be adventure or vehicle")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	entries, err := h.history.History(c.Request().Context(), string(kind), uint(id))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.ToHistoryResponses(entries)))
}
