package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/notify"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultReviewer = "admin"

type CreateBookingInput struct {
	Customer models.Customer
	// AdventureRef is the adventure id as sent by the client. Empty or malformed means a general inquiry.
	AdventureRef         string
	NumberOfParticipants int
	PreferredDate        *time.Time
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.AdventureBooking, error)
	ApproveBooking(ctx context.Context, id uint, approvedBy string) (*models.AdventureBooking, error)
	RejectBooking(ctx context.Context, id uint, rejectedBy, reason string) (*models.AdventureBooking, error)
	CancelBooking(ctx context.Context, id uint) (*models.AdventureBooking, error)
	CancelBookingByReference(ctx context.Context, reference string) (*models.AdventureBooking, error)
	DeleteBooking(ctx context.Context, id uint, actor string) error
	GetBooking(ctx context.Context, id uint) (*models.AdventureBooking, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.AdventureBooking, error)
}

type bookingService struct {
	bookingRepo   repository.BookingRepository
	adventureRepo repository.AdventureRepository
	events        notify.Publisher
	logger        *logrus.Logger
	now           func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	adventureRepo repository.AdventureRepository,
	events notify.Publisher,
	logger *logrus.Logger,
) BookingService {
	if events == nil {
		events = notify.Nop{}
	}
	return &bookingService{
		bookingRepo:   bookingRepo,
		adventureRepo: adventureRepo,
		events:        events,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// parseAdventureRef keeps the lenient behaviour for malformed ids: they are dropped, not rejected.
func (s *bookingService) parseAdventureRef(ref string) *uint {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || id == 0 {
		s.logger.WithField("adventure_ref", ref).Warn("ignoring malformed adventure id; booking stored as inquiry")
		return nil
	}
	v := uint(id)
	return &v
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.AdventureBooking, error) {
	seats := in.NumberOfParticipants
	if seats == 0 {
		seats = 1
	}
	if seats < 0 {
		return nil, ErrInvalidParticipants
	}

	booking := &models.AdventureBooking{
		Reference:            uuid.NewString(),
		Customer:             in.Customer,
		AdventureID:          s.parseAdventureRef(in.AdventureRef),
		NumberOfParticipants: seats,
		PreferredDate:        in.PreferredDate,
		Status:               models.StatusPending,
	}

	// Advisory check against the counter as it is now; approval re-checks under the lock.
	if booking.AdventureID != nil {
		adventure, err := s.adventureRepo.FindByID(ctx, *booking.AdventureID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAdventureNotFound
			}
			return nil, fmt.Errorf("load adventure: %w", err)
		}
		if !adventure.IsActive {
			return nil, ErrAdventureInactive
		}
		if !adventure.CanSeat(seats) {
			return nil, &CapacityError{Requested: seats, Available: adventure.AvailableSeats()}
		}
		booking.Adventure = adventure
	}

	if err := s.bookingRepo.Create(ctx, s.bookingRepo.GetDB(), booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"adventure_id": booking.AdventureID,
		"seats":        seats,
	}).Info("booking created")
	s.events.Publish(ctx, notify.AdventureEvent(notify.EventCreated, booking, nil, booking.Customer.Email))

	return booking, nil
}

// lockBooking takes the adventure row lock before re-reading the booking, so every
// transition on the same adventure runs one at a time.
func (s *bookingService) lockBooking(ctx context.Context, tx *gorm.DB, id uint) (*models.AdventureBooking, *models.Adventure, error) {
	booking, err := s.bookingRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}

	var adventure *models.Adventure
	if booking.AdventureID != nil {
		adventure, err = s.adventureRepo.FindByIDForUpdate(ctx, tx, *booking.AdventureID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrAdventureNotFound
			}
			return nil, nil, err
		}
	}

	booking, err = s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	booking.Adventure = adventure
	return booking, adventure, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, id uint, approvedBy string) (*models.AdventureBooking, error) {
	if approvedBy == "" {
		approvedBy = defaultReviewer
	}

	var (
		result *models.AdventureBooking
		booked *int
	)
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, adventure, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		switch booking.Status {
		case models.StatusApproved:
			return ErrAlreadyApproved
		case models.StatusCancelled:
			return ErrBookingCancelled
		}

		if adventure != nil {
			seats := booking.Seats()
			if !adventure.CanSeat(seats) {
				return &CapacityError{Requested: seats, Available: adventure.AvailableSeats()}
			}
			ok, err := s.adventureRepo.AddSeats(ctx, tx, adventure.ID, seats)
			if err != nil {
				return fmt.Errorf("reserve seats: %w", err)
			}
			if !ok {
				return &CapacityError{Requested: seats, Available: adventure.AvailableSeats()}
			}
			n := adventure.BookedSeats + seats
			adventure.BookedSeats = n
			booked = &n
		}

		booking.Status = models.StatusApproved
		booking.Review.MarkApproved(approvedBy, s.now())
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   result.ID,
		"adventure_id": result.AdventureID,
		"seats":        result.Seats(),
		"booked_seats": booked,
		"approved_by":  approvedBy,
	}).Info("booking approved")
	s.events.Publish(ctx, notify.AdventureEvent(notify.EventApproved, result, booked, approvedBy))

	return result, nil
}

// RejectBooking is idempotent: a booking that is already rejected is returned as is
// and its seats are never released twice.
func (s *bookingService) RejectBooking(ctx context.Context, id uint, rejectedBy, reason string) (*models.AdventureBooking, error) {
	if rejectedBy == "" {
		rejectedBy = defaultReviewer
	}

	var (
		result  *models.AdventureBooking
		booked  *int
		changed bool
	)
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, adventure, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		switch booking.Status {
		case models.StatusRejected:
			result = booking
			return nil
		case models.StatusCancelled:
			return ErrBookingCancelled
		}

		if booking.HoldsSeats() && adventure != nil {
			seats := booking.Seats()
			if _, err := s.adventureRepo.AddSeats(ctx, tx, adventure.ID, -seats); err != nil {
				return fmt.Errorf("release seats: %w", err)
			}
			n := adventure.ReleasedSeats(seats)
			adventure.BookedSeats = n
			booked = &n
		}

		booking.Status = models.StatusRejected
		booking.Review.MarkRejected(rejectedBy, reason, s.now())
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		result = booking
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return result, nil
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   result.ID,
		"adventure_id": result.AdventureID,
		"booked_seats": booked,
		"rejected_by":  rejectedBy,
	}).Info("booking rejected")
	s.events.Publish(ctx, notify.AdventureEvent(notify.EventRejected, result, booked, rejectedBy))

	return result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id uint) (*models.AdventureBooking, error) {
	var result *models.AdventureBooking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, _, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if booking.Status != models.StatusPending {
			return ErrInvalidTransition
		}

		now := s.now()
		booking.Status = models.StatusCancelled
		booking.Review.CancelledAt = &now
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("booking_id", result.ID).Info("booking cancelled")
	s.events.Publish(ctx, notify.AdventureEvent(notify.EventCancelled, result, nil, result.Customer.Email))

	return result, nil
}

// CancelBookingByReference is the customer-facing cancel: the reference is the only proof of ownership.
func (s *bookingService) CancelBookingByReference(ctx context.Context, reference string) (*models.AdventureBooking, error) {
	booking, err := s.bookingRepo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return s.CancelBooking(ctx, booking.ID)
}

// DeleteBooking gives an approved booking's seats back before removing the row.
func (s *bookingService) DeleteBooking(ctx context.Context, id uint, actor string) error {
	var (
		deleted *models.AdventureBooking
		booked  *int
	)
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, adventure, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		if booking.HoldsSeats() && adventure != nil {
			seats := booking.Seats()
			if _, err := s.adventureRepo.AddSeats(ctx, tx, adventure.ID, -seats); err != nil {
				return fmt.Errorf("release seats: %w", err)
			}
			n := adventure.ReleasedSeats(seats)
			adventure.BookedSeats = n
			booked = &n
		}

		if err := s.bookingRepo.Delete(ctx, tx, booking.ID); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		deleted = booking
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   deleted.ID,
		"adventure_id": deleted.AdventureID,
		"booked_seats": booked,
		"actor":        actor,
	}).Info("booking deleted")
	s.events.Publish(ctx, notify.AdventureEvent(notify.EventDeleted, deleted, booked, actor))

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.AdventureBooking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, s.bookingRepo.GetDB(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.AdventureBooking, error) {
	return s.bookingRepo.List(ctx, filter)
}
