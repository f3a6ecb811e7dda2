package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesSecret = "routes-secret"

const bookingRef = "3f1c2a9e-8a51-4d4e-9c1e-7b2f7f0a1b2c"

// serveWithAuth wires the groups the way main does, with real token checks.
func serveWithAuth(bookings *mockBookingService, vehicles *mockVehicleBookingService, method, target, token string) *httptest.ResponseRecorder {
	e := newEcho()
	public, admin := NewRouteGroups(e, "/api/v1", middleware.JWTAuth(routesSecret), middleware.RequireManager())
	NewAdventureBookingHandler(bookings).RegisterRoutes(public, admin)
	NewVehicleBookingHandler(vehicles).RegisterRoutes(public, admin)

	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ops@example.com",
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(routesSecret))
	require.NoError(t, err)
	return token
}

func TestCancelByID_RequiresManager(t *testing.T) {
	called := false
	bookings := &mockBookingService{
		cancelFn: func(ctx context.Context, id uint) (*models.AdventureBooking, error) {
			called = true
			return sampleBooking(id, models.StatusCancelled), nil
		},
	}
	vehicleCalled := false
	vehicles := &mockVehicleBookingService{
		cancelFn: func(ctx context.Context, id uint) (*models.VehicleBooking, error) {
			vehicleCalled = true
			return &models.VehicleBooking{ID: id, Status: models.StatusCancelled}, nil
		},
	}

	rec := serveWithAuth(bookings, vehicles, http.MethodPatch, "/api/v1/adventure-bookings/7/cancel", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	rec = serveWithAuth(bookings, vehicles, http.MethodPatch, "/api/v1/vehicle-bookings/7/cancel", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, vehicleCalled)

	rec = serveWithAuth(bookings, vehicles, http.MethodPatch, "/api/v1/adventure-bookings/7/cancel", signToken(t, models.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	rec = serveWithAuth(bookings, vehicles, http.MethodPatch, "/api/v1/adventure-bookings/7/cancel", signToken(t, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestCancelByReference_Anonymous(t *testing.T) {
	var gotRef string
	bookings := &mockBookingService{
		cancelByRefFn: func(ctx context.Context, reference string) (*models.AdventureBooking, error) {
			gotRef = reference
			b := sampleBooking(7, models.StatusCancelled)
			b.Reference = reference
			return b, nil
		},
	}
	var gotVehicleRef string
	vehicles := &mockVehicleBookingService{
		cancelByRefFn: func(ctx context.Context, reference string) (*models.VehicleBooking, error) {
			gotVehicleRef = reference
			return &models.VehicleBooking{ID: 2, Reference: reference, Status: models.StatusCancelled}, nil
		},
	}

	rec := serveWithAuth(bookings, vehicles, http.MethodPatch, "/api/v1/adventure-bookings/by-ref/"+bookingRef+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingRef, gotRef)

	rec = serveWithAuth(bookings, vehicles, http.MethodPatch, "/api/v1/vehicle-bookings/by-ref/"+bookingRef+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingRef, gotVehicleRef)
}

func TestCancelByReference_RejectsNonReference(t *testing.T) {
	bookings := &mockBookingService{}

	rec := serveWithAuth(bookings, &mockVehicleBookingService{}, http.MethodPatch, "/api/v1/adventure-bookings/by-ref/7/cancel", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid booking reference", decode(t, rec).Error)
}

func TestUnknownRoute_NotFound(t *testing.T) {
	for _, target := range []string{"/api/v1/no-such-route", "/api/v1/adventure-bookings/7/unknown"} {
		rec := serveWithAuth(&mockBookingService{}, &mockVehicleBookingService{}, http.MethodGet, target, "")

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.False(t, decode(t, rec).Success)
	}
}
