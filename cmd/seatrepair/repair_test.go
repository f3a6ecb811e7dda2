//go:build integration

package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair(t *testing.T) {
	dsn := os.Getenv("SEATREPAIR_TEST_DSN")
	if dsn == "" {
		t.Skip("SEATREPAIR_TEST_DSN not set")
	}

	gdb, err := database.NewPostgresDB(dsn)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db := sqlx.NewDb(sqlDB, "postgres")
	db.MustExec("DELETE FROM adventure_bookings")
	db.MustExec("DELETE FROM adventures")

	var driftedID, cleanID uint
	require.NoError(t, db.Get(&driftedID,
		`INSERT INTO adventures (title, max_participants, booked_seats, is_active, created_at, updated_at)
		 VALUES ('Drifted', 10, 9, true, NOW(), NOW()) RETURNING id`))
	require.NoError(t, db.Get(&cleanID,
		`INSERT INTO adventures (title, max_participants, booked_seats, is_active, created_at, updated_at)
		 VALUES ('Clean', 10, 3, true, NOW(), NOW()) RETURNING id`))

	insertBooking := `INSERT INTO adventure_bookings
		(reference, full_name, email, phone, adventure_id, number_of_participants, status, created_at, updated_at)
		VALUES ($1, 'Guest', 'guest@example.com', '1', $2, $3, $4, NOW(), NOW())`
	db.MustExec(insertBooking, "ref-1", driftedID, 4, "approved")
	db.MustExec(insertBooking, "ref-2", driftedID, 2, "pending")
	db.MustExec(insertBooking, "ref-3", cleanID, 3, "approved")

	t.Run("dry run reports without writing", func(t *testing.T) {
		drifts, err := Repair(t.Context(), db, false)
		require.NoError(t, err)
		require.Len(t, drifts, 1)
		assert.Equal(t, Drift{AdventureID: driftedID, Title: "Drifted", BookedSeats: 9, ApprovedSeats: 4}, drifts[0])

		var booked int
		require.NoError(t, db.Get(&booked, "SELECT booked_seats FROM adventures WHERE id = $1", driftedID))
		assert.Equal(t, 9, booked)
	})

	t.Run("dry run does not wait on locked rows", func(t *testing.T) {
		holder, err := db.BeginTxx(t.Context(), nil)
		require.NoError(t, err)
		defer holder.Rollback()
		_, err = holder.Exec("SELECT id FROM adventures WHERE id = $1 FOR UPDATE", driftedID)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
		defer cancel()
		drifts, err := Repair(ctx, db, false)
		require.NoError(t, err)
		assert.Len(t, drifts, 1)
	})

	t.Run("apply fixes the counter", func(t *testing.T) {
		drifts, err := Repair(t.Context(), db, true)
		require.NoError(t, err)
		assert.Len(t, drifts, 1)

		var booked int
		require.NoError(t, db.Get(&booked, "SELECT booked_seats FROM adventures WHERE id = $1", driftedID))
		assert.Equal(t, 4, booked)

		drifts, err = Repair(t.Context(), db, false)
		require.NoError(t, err)
		assert.Empty(t, drifts)
	})
}
