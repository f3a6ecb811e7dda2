// Command loadtest races many approvals against one adventure on a running
// server and checks that no more seats were committed than it has.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type client struct {
	base  string
	token string
	http  *http.Client
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *client) do(ctx context.Context, method, path string, body any) (int, envelope, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, envelope{}, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return 0, envelope{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, envelope{}, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, envelope{}, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return resp.StatusCode, env, nil
}

func adminToken(secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "loadtest",
		"role": "admin",
		"exp":  time.Now().Add(10 * time.Minute).Unix(),
	}).SignedString([]byte(secret))
}

func main() {
	cfg := config.Load()
	base := flag.String("base", "http://localhost:"+cfg.ServerPort+"/api/v1", "API base URL")
	capacity := flag.Int("capacity", 10, "adventure capacity")
	bookings := flag.Int("bookings", 50, "one-seat bookings to approve concurrently")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	token, err := adminToken(cfg.JWTSecret)
	if err != nil {
		logger.WithError(err).Fatal("failed to sign admin token")
	}
	c := &client{base: *base, token: token, http: &http.Client{Timeout: 30 * time.Second}}
	ctx := context.Background()

	code, env, err := c.do(ctx, http.MethodPost, "/adventures", map[string]any{
		"title":           fmt.Sprintf("loadtest %d", time.Now().Unix()),
		"maxParticipants": *capacity,
	})
	if err != nil || code != http.StatusCreated {
		logger.WithError(err).WithField("status", code).Fatal("failed to create adventure")
	}
	var adventure struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &adventure); err != nil {
		logger.WithError(err).Fatal("bad adventure response")
	}

	ids := make([]uint, 0, *bookings)
	for i := 0; i < *bookings; i++ {
		code, env, err := c.do(ctx, http.MethodPost, "/adventure-bookings", map[string]any{
			"fullName":             fmt.Sprintf("Load Tester %d", i),
			"email":                fmt.Sprintf("load%d@example.com", i),
			"phone":                "+254700000000",
			"adventureId":          adventure.ID,
			"numberOfParticipants": 1,
		})
		if err != nil || code != http.StatusCreated {
			logger.WithError(err).WithField("status", code).Fatal("failed to create booking")
		}
		var b struct {
			ID uint `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &b); err != nil {
			logger.WithError(err).Fatal("bad booking response")
		}
		ids = append(ids, b.ID)
	}

	var (
		mu       sync.Mutex
		approved int
		refused  int
		failed   int
		wg       sync.WaitGroup
		start    = make(chan struct{})
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			<-start
			code, _, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/adventure-bookings/%d/approve", id), nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed++
			case code == http.StatusOK:
				approved++
			case code == http.StatusBadRequest:
				refused++
			default:
				failed++
			}
		}(id)
	}
	began := time.Now()
	close(start)
	wg.Wait()

	code, env, err = c.do(ctx, http.MethodGet, fmt.Sprintf("/adventures/%d", adventure.ID), nil)
	if err != nil || code != http.StatusOK {
		logger.WithError(err).WithField("status", code).Fatal("failed to read adventure")
	}
	var final struct {
		MaxParticipants int `json:"maxParticipants"`
		BookedSeats     int `json:"bookedSeats"`
	}
	if err := json.Unmarshal(env.Data, &final); err != nil {
		logger.WithError(err).Fatal("bad adventure response")
	}

	log := logger.WithFields(logrus.Fields{
		"adventure_id": adventure.ID,
		"approved":     approved,
		"refused":      refused,
		"failed":       failed,
		"booked_seats": final.BookedSeats,
		"capacity":     final.MaxParticipants,
		"elapsed":      time.Since(began).String(),
	})

	expected := min(*bookings, *capacity)
	if final.BookedSeats != approved || approved != expected || failed > 0 {
		log.Error("ledger mismatch")
		os.Exit(1)
	}
	log.Info("ledger consistent")
}
