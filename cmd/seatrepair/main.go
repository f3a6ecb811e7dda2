// Command seatrepair finds adventures whose booked_seats counter disagrees with
// their approved bookings. It only reports unless -apply is given.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	apply := flag.Bool("apply", false, "write the recomputed counters")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	cfg := config.Load()
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	drifts, err := Repair(ctx, db, *apply)
	if err != nil {
		logger.WithError(err).Error("seat repair failed")
		os.Exit(1)
	}

	for _, d := range drifts {
		logger.WithFields(logrus.Fields{
			"adventure_id":   d.AdventureID,
			"title":          d.Title,
			"booked_seats":   d.BookedSeats,
			"approved_seats": d.ApprovedSeats,
		}).Warn("counter drift")
	}

	switch {
	case len(drifts) == 0:
		logger.Info("all counters match their approved bookings")
	case *apply:
		logger.WithField("repaired", len(drifts)).Info("counters rewritten")
	default:
		logger.WithField("drifted", len(drifts)).Info("dry run; rerun with -apply to fix")
		os.Exit(2)
	}
}
