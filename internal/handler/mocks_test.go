package handler

import (
	"context"
	"io"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/audit"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	return e
}

// --- Mock BookingService ---

type mockBookingService struct {
	createFn      func(ctx context.Context, in service.CreateBookingInput) (*models.AdventureBooking, error)
	approveFn     func(ctx context.Context, id uint, approvedBy string) (*models.AdventureBooking, error)
	rejectFn      func(ctx context.Context, id uint, rejectedBy, reason string) (*models.AdventureBooking, error)
	cancelFn      func(ctx context.Context, id uint) (*models.AdventureBooking, error)
	cancelByRefFn func(ctx context.Context, reference string) (*models.AdventureBooking, error)
	deleteFn      func(ctx context.Context, id uint, actor string) error
	getFn         func(ctx context.Context, id uint) (*models.AdventureBooking, error)
	listFn        func(ctx context.Context, filter repository.BookingFilter) ([]models.AdventureBooking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*models.AdventureBooking, error) {
	return m.createFn(ctx, in)
}
func (m *mockBookingService) ApproveBooking(ctx context.Context, id uint, approvedBy string) (*models.AdventureBooking, error) {
	return m.approveFn(ctx, id, approvedBy)
}
func (m *mockBookingService) RejectBooking(ctx context.Context, id uint, rejectedBy, reason string) (*models.AdventureBooking, error) {
	return m.rejectFn(ctx, id, rejectedBy, reason)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, id uint) (*models.AdventureBooking, error) {
	return m.cancelFn(ctx, id)
}
func (m *mockBookingService) CancelBookingByReference(ctx context.Context, reference string) (*models.AdventureBooking, error) {
	return m.cancelByRefFn(ctx, reference)
}
func (m *mockBookingService) DeleteBooking(ctx context.Context, id uint, actor string) error {
	return m.deleteFn(ctx, id, actor)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uint) (*models.AdventureBooking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.AdventureBooking, error) {
	return m.listFn(ctx, filter)
}

// --- Mock AdventureService ---

type mockAdventureService struct {
	createFn       func(ctx context.Context, a *models.Adventure) error
	getFn          func(ctx context.Context, id uint) (*models.Adventure, error)
	listFn         func(ctx context.Context, activeOnly bool) ([]models.Adventure, error)
	updateFn       func(ctx context.Context, id uint, upd service.AdventureUpdate) (*models.Adventure, error)
	deleteFn       func(ctx context.Context, id uint) error
	availabilityFn func(ctx context.Context, id uint) (*service.Availability, error)
}

func (m *mockAdventureService) CreateAdventure(ctx context.Context, a *models.Adventure) error {
	return m.createFn(ctx, a)
}
func (m *mockAdventureService) GetAdventure(ctx context.Context, id uint) (*models.Adventure, error) {
	return m.getFn(ctx, id)
}
func (m *mockAdventureService) ListAdventures(ctx context.Context, activeOnly bool) ([]models.Adventure, error) {
	return m.listFn(ctx, activeOnly)
}
func (m *mockAdventureService) UpdateAdventure(ctx context.Context, id uint, upd service.AdventureUpdate) (*models.Adventure, error) {
	return m.updateFn(ctx, id, upd)
}
func (m *mockAdventureService) DeleteAdventure(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockAdventureService) GetAvailability(ctx context.Context, id uint) (*service.Availability, error) {
	return m.availabilityFn(ctx, id)
}

// --- Mock VehicleService ---

type mockVehicleService struct {
	createFn          func(ctx context.Context, v *models.Vehicle) error
	getFn             func(ctx context.Context, id uint) (*models.Vehicle, error)
	listFn            func(ctx context.Context, availableOnly bool) ([]models.Vehicle, error)
	setAvailabilityFn func(ctx context.Context, id uint, available bool) (*models.Vehicle, error)
}

func (m *mockVehicleService) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	return m.createFn(ctx, v)
}
func (m *mockVehicleService) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	return m.getFn(ctx, id)
}
func (m *mockVehicleService) ListVehicles(ctx context.Context, availableOnly bool) ([]models.Vehicle, error) {
	return m.listFn(ctx, availableOnly)
}
func (m *mockVehicleService) SetAvailability(ctx context.Context, id uint, available bool) (*models.Vehicle, error) {
	return m.setAvailabilityFn(ctx, id, available)
}

// --- Mock VehicleBookingService ---

type mockVehicleBookingService struct {
	createFn      func(ctx context.Context, in service.CreateVehicleBookingInput) (*models.VehicleBooking, error)
	approveFn     func(ctx context.Context, id uint, approvedBy string) (*models.VehicleBooking, error)
	confirmFn     func(ctx context.Context, id uint, actor string) (*models.VehicleBooking, error)
	rejectFn      func(ctx context.Context, id uint, rejectedBy, reason string) (*models.VehicleBooking, error)
	cancelFn      func(ctx context.Context, id uint) (*models.VehicleBooking, error)
	cancelByRefFn func(ctx context.Context, reference string) (*models.VehicleBooking, error)
	deleteFn      func(ctx context.Context, id uint, role models.Role, actor string) error
	getFn         func(ctx context.Context, id uint) (*models.VehicleBooking, error)
	listFn        func(ctx context.Context, filter repository.VehicleBookingFilter) ([]models.VehicleBooking, error)
}

func (m *mockVehicleBookingService) CreateBooking(ctx context.Context, in service.CreateVehicleBookingInput) (*models.VehicleBooking, error) {
	return m.createFn(ctx, in)
}
func (m *mockVehicleBookingService) ApproveBooking(ctx context.Context, id uint, approvedBy string) (*models.VehicleBooking, error) {
	return m.approveFn(ctx, id, approvedBy)
}
func (m *mockVehicleBookingService) ConfirmBooking(ctx context.Context, id uint, actor string) (*models.VehicleBooking, error) {
	return m.confirmFn(ctx, id, actor)
}
func (m *mockVehicleBookingService) RejectBooking(ctx context.Context, id uint, rejectedBy, reason string) (*models.VehicleBooking, error) {
	return m.rejectFn(ctx, id, rejectedBy, reason)
}
func (m *mockVehicleBookingService) CancelBooking(ctx context.Context, id uint) (*models.VehicleBooking, error) {
	return m.cancelFn(ctx, id)
}
func (m *mockVehicleBookingService) CancelBookingByReference(ctx context.Context, reference string) (*models.VehicleBooking, error) {
	return m.cancelByRefFn(ctx, reference)
}
func (m *mockVehicleBookingService) DeleteBooking(ctx context.Context, id uint, role models.Role, actor string) error {
	return m.deleteFn(ctx, id, role, actor)
}
func (m *mockVehicleBookingService) GetBooking(ctx context.Context, id uint) (*models.VehicleBooking, error) {
	return m.getFn(ctx, id)
}
func (m *mockVehicleBookingService) ListBookings(ctx context.Context, filter repository.VehicleBookingFilter) ([]models.VehicleBooking, error) {
	return m.listFn(ctx, filter)
}

// --- Mock reconciler and history ---

type mockReconciler struct {
	oneFn func(ctx context.Context, id uint) (*service.DriftReport, error)
	allFn func(ctx context.Context) (*service.ReconcileSummary, error)
}

func (m *mockReconciler) ReconcileAdventure(ctx context.Context, id uint) (*service.DriftReport, error) {
	return m.oneFn(ctx, id)
}
func (m *mockReconciler) ReconcileAll(ctx context.Context) (*service.ReconcileSummary, error) {
	return m.allFn(ctx)
}

type mockHistory struct {
	historyFn func(ctx context.Context, kind string, bookingID uint) ([]audit.Entry, error)
}

func (m *mockHistory) History(ctx context.Context, kind string, bookingID uint) ([]audit.Entry, error) {
	return m.historyFn(ctx, kind, bookingID)
}
