//go:build api

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baseURL    = getEnv("API_BASE_URL", "http://localhost:8082")
	jwtSecret  = getEnv("JWT_SECRET", "change-me")
	adminToken string
)

type envelope struct {
	Success        bool            `json:"success"`
	Data           json.RawMessage `json:"data"`
	Message        string          `json:"message"`
	Error          string          `json:"error"`
	AvailableSeats *int            `json:"availableSeats"`
}

type bookingBody struct {
	ID             uint   `json:"id"`
	Status         string `json:"status"`
	ApprovedBy     string `json:"approvedBy"`
	BookedSeats    *int   `json:"bookedSeats"`
	AvailableSeats *int   `json:"availableSeats"`
}

// TestAPI_SeatLedgerFlow walks one adventure through create → book → approve → reject → delete over HTTP.
func TestAPI_SeatLedgerFlow(t *testing.T) {
	waitForService(t)

	var adventureID uint
	t.Run("CreateAdventure", func(t *testing.T) {
		status, env := call(t, http.MethodPost, "/api/v1/adventures", adminToken, map[string]any{
			"title":           fmt.Sprintf("Maasai Mara %d", time.Now().UnixNano()),
			"location":        "Narok",
			"price":           1200,
			"maxParticipants": 30,
		})
		require.Equal(t, http.StatusCreated, status, env.Error)

		var body struct {
			ID             uint `json:"id"`
			BookedSeats    int  `json:"bookedSeats"`
			AvailableSeats int  `json:"availableSeats"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.Equal(t, 0, body.BookedSeats)
		assert.Equal(t, 30, body.AvailableSeats)
		adventureID = body.ID
	})

	var bookingID uint
	t.Run("CreateBooking", func(t *testing.T) {
		status, env := call(t, http.MethodPost, "/api/v1/adventure-bookings", "", map[string]any{
			"fullName":             "Jane Traveller",
			"email":                "jane@example.com",
			"phone":                "+254700000001",
			"adventureId":          fmt.Sprint(adventureID),
			"numberOfParticipants": 2,
		})
		require.Equal(t, http.StatusCreated, status, env.Error)

		var body bookingBody
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.Equal(t, "pending", body.Status)
		bookingID = body.ID

		assert.Equal(t, 30, availableSeats(t, adventureID))
	})

	t.Run("ApproveRequiresToken", func(t *testing.T) {
		status, env := call(t, http.MethodPatch, fmt.Sprintf("/api/v1/adventure-bookings/%d/approve", bookingID), "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.False(t, env.Success)
	})

	t.Run("Approve", func(t *testing.T) {
		status, env := call(t, http.MethodPatch, fmt.Sprintf("/api/v1/adventure-bookings/%d/approve", bookingID), adminToken, nil)
		require.Equal(t, http.StatusOK, status, env.Error)

		var body bookingBody
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.Equal(t, "approved", body.Status)
		assert.Equal(t, "api-test", body.ApprovedBy)
		require.NotNil(t, body.BookedSeats)
		assert.Equal(t, 2, *body.BookedSeats)
		assert.Equal(t, 28, availableSeats(t, adventureID))
	})

	t.Run("ApproveTwice", func(t *testing.T) {
		status, env := call(t, http.MethodPatch, fmt.Sprintf("/api/v1/adventure-bookings/%d/approve", bookingID), adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.False(t, env.Success)
	})

	t.Run("OverCapacity", func(t *testing.T) {
		status, env := call(t, http.MethodPost, "/api/v1/adventure-bookings", "", map[string]any{
			"fullName":             "Big Group",
			"email":                "group@example.com",
			"phone":                "+254700000002",
			"adventureId":          adventureID,
			"numberOfParticipants": 29,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.AvailableSeats)
		assert.Equal(t, 28, *env.AvailableSeats)
	})

	t.Run("Reject", func(t *testing.T) {
		status, env := call(t, http.MethodPatch, fmt.Sprintf("/api/v1/adventure-bookings/%d/reject", bookingID), adminToken, map[string]any{
			"rejectionReason": "weather",
		})
		require.Equal(t, http.StatusOK, status, env.Error)

		var body bookingBody
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.Equal(t, "rejected", body.Status)
		require.NotNil(t, body.BookedSeats)
		assert.Equal(t, 0, *body.BookedSeats)
		assert.Equal(t, 30, availableSeats(t, adventureID))
	})

	t.Run("DeleteBooking", func(t *testing.T) {
		status, env := call(t, http.MethodDelete, fmt.Sprintf("/api/v1/adventure-bookings/%d", bookingID), adminToken, nil)
		require.Equal(t, http.StatusOK, status, env.Error)

		status, _ = call(t, http.MethodGet, fmt.Sprintf("/api/v1/adventure-bookings/%d", bookingID), adminToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Reconcile", func(t *testing.T) {
		status, env := call(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/adventures/%d/reconcile", adventureID), adminToken, nil)
		require.Equal(t, http.StatusOK, status, env.Error)

		var report struct {
			Corrected bool `json:"corrected"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &report))
		assert.False(t, report.Corrected)
	})
}

func availableSeats(t *testing.T, adventureID uint) int {
	t.Helper()
	status, env := call(t, http.MethodGet, fmt.Sprintf("/api/v1/adventures/%d/availability", adventureID), "", nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	var body struct {
		AvailableSeats int `json:"availableSeats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	return body.AvailableSeats
}

func waitForService(t *testing.T) {
	for i := 0; i < 30; i++ {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(time.Second)
	}
	t.Fatal("service did not become ready in time")
}

func call(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestMain(m *testing.M) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "api-test",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	if err != nil {
		fmt.Println("sign token:", err)
		os.Exit(1)
	}
	adminToken = token

	fmt.Println("running API tests against", baseURL)
	os.Exit(m.Run())
}
