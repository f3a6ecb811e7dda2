package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/notify"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DriftReport struct {
	AdventureID uint
	Before      int
	After       int
	Corrected   bool
}

type ReconcileSummary struct {
	Checked   int
	Corrected []DriftReport
}

type SeatReconciler interface {
	ReconcileAdventure(ctx context.Context, id uint) (*DriftReport, error)
	ReconcileAll(ctx context.Context) (*ReconcileSummary, error)
}

// Reconciler recomputes booked_seats from approved bookings.
type Reconciler struct {
	adventureRepo repository.AdventureRepository
	bookingRepo   repository.BookingRepository
	events        notify.Publisher
	logger        *logrus.Logger
}

func NewReconciler(
	adventureRepo repository.AdventureRepository,
	bookingRepo repository.BookingRepository,
	events notify.Publisher,
	logger *logrus.Logger,
) *Reconciler {
	if events == nil {
		events = notify.Nop{}
	}
	return &Reconciler{
		adventureRepo: adventureRepo,
		bookingRepo:   bookingRepo,
		events:        events,
		logger:        logger,
	}
}

// ReconcileAdventure holds the adventure lock while it sums, so it never races a transition.
func (r *Reconciler) ReconcileAdventure(ctx context.Context, id uint) (*DriftReport, error) {
	var report DriftReport
	err := r.adventureRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		adventure, err := r.adventureRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdventureNotFound
			}
			return err
		}

		sum, err := r.bookingRepo.SumApprovedSeats(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("sum approved seats: %w", err)
		}

		report = DriftReport{AdventureID: id, Before: adventure.BookedSeats, After: sum}
		if sum == adventure.BookedSeats {
			return nil
		}
		report.Corrected = true
		return r.adventureRepo.SetBookedSeats(ctx, tx, id, sum)
	})
	if err != nil {
		return nil, err
	}

	if report.Corrected {
		r.logger.WithFields(logrus.Fields{
			"adventure_id": id,
			"before":       report.Before,
			"after":        report.After,
		}).Warn("booked seats drifted; counter corrected")
		r.events.Publish(ctx, notify.ReconciledEvent(id, report.Before, report.After))
	}
	return &report, nil
}

func (r *Reconciler) ReconcileAll(ctx context.Context) (*ReconcileSummary, error) {
	ids, err := r.adventureRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list adventures: %w", err)
	}

	summary := &ReconcileSummary{Corrected: []DriftReport{}}
	for _, id := range ids {
		report, err := r.ReconcileAdventure(ctx, id)
		if errors.Is(err, ErrAdventureNotFound) {
			continue // deleted since listing
		}
		if err != nil {
			return summary, err
		}
		summary.Checked++
		if report.Corrected {
			summary.Corrected = append(summary.Corrected, *report)
		}
	}
	return summary, nil
}

// Run reconciles every interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.WithField("interval", interval.String()).Info("seat reconciler started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("seat reconciler stopped")
			return
		case <-ticker.C:
			summary, err := r.ReconcileAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.WithError(err).Error("seat reconciliation failed")
				continue
			}
			r.logger.WithFields(logrus.Fields{
				"checked":   summary.Checked,
				"corrected": len(summary.Corrected),
			}).Debug("seat reconciliation pass done")
		}
	}
}
