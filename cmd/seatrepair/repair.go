package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Drift is one adventure whose counter disagrees with its approved bookings.
type Drift struct {
	AdventureID   uint   `db:"id"`
	Title         string `db:"title"`
	BookedSeats   int    `db:"booked_seats"`
	ApprovedSeats int    `db:"approved_seats"`
}

// Adventure rows are locked in id order, the same order the server takes them,
// so a repair never deadlocks against a live approval.
const lockAdventuresQuery = `SELECT id FROM adventures ORDER BY id FOR UPDATE`

const driftQuery = `
SELECT a.id, a.title, a.booked_seats,
       COALESCE(SUM(b.number_of_participants) FILTER (WHERE b.status = 'approved'), 0) AS approved_seats
FROM adventures a
LEFT JOIN adventure_bookings b ON b.adventure_id = a.id
GROUP BY a.id, a.title, a.booked_seats
HAVING a.booked_seats <> COALESCE(SUM(b.number_of_participants) FILTER (WHERE b.status = 'approved'), 0)
ORDER BY a.id`

const repairQuery = `
UPDATE adventures a
SET booked_seats = s.approved_seats, updated_at = NOW()
FROM (
    SELECT a2.id,
           COALESCE(SUM(b.number_of_participants) FILTER (WHERE b.status = 'approved'), 0) AS approved_seats
    FROM adventures a2
    LEFT JOIN adventure_bookings b ON b.adventure_id = a2.id
    GROUP BY a2.id
) s
WHERE a.id = s.id AND a.booked_seats <> s.approved_seats`

// Repair reports drifted counters and, when apply is set, overwrites them in the same transaction.
// A dry run reads a snapshot and takes no row locks.
func Repair(ctx context.Context, db *sqlx.DB, apply bool) ([]Drift, error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: !apply})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if apply {
		if _, err := tx.ExecContext(ctx, lockAdventuresQuery); err != nil {
			return nil, fmt.Errorf("lock adventures: %w", err)
		}
	}

	var drifts []Drift
	if err := tx.SelectContext(ctx, &drifts, driftQuery); err != nil {
		return nil, fmt.Errorf("find drift: %w", err)
	}

	if !apply || len(drifts) == 0 {
		return drifts, nil
	}

	res, err := tx.ExecContext(ctx, repairQuery)
	if err != nil {
		return nil, fmt.Errorf("repair counters: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n != int64(len(drifts)) {
		return nil, fmt.Errorf("repair touched %d rows, expected %d", n, len(drifts))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return drifts, nil
}
