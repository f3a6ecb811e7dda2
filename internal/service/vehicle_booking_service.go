package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/notify"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateVehicleBookingInput struct {
	Customer       models.Customer
	VehicleID      uint
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupLocation string
}

type VehicleBookingService interface {
	CreateBooking(ctx context.Context, in CreateVehicleBookingInput) (*models.VehicleBooking, error)
	ApproveBooking(ctx context.Context, id uint, approvedBy string) (*models.VehicleBooking, error)
	ConfirmBooking(ctx context.Context, id uint, actor string) (*models.VehicleBooking, error)
	RejectBooking(ctx context.Context, id uint, rejectedBy, reason string) (*models.VehicleBooking, error)
	CancelBooking(ctx context.Context, id uint) (*models.VehicleBooking, error)
	CancelBookingByReference(ctx context.Context, reference string) (*models.VehicleBooking, error)
	DeleteBooking(ctx context.Context, id uint, role models.Role, actor string) error
	GetBooking(ctx context.Context, id uint) (*models.VehicleBooking, error)
	ListBookings(ctx context.Context, filter repository.VehicleBookingFilter) ([]models.VehicleBooking, error)
}

type vehicleBookingService struct {
	bookingRepo repository.VehicleBookingRepository
	vehicleRepo repository.VehicleRepository
	events      notify.Publisher
	logger      *logrus.Logger
	now         func() time.Time
}

func NewVehicleBookingService(
	bookingRepo repository.VehicleBookingRepository,
	vehicleRepo repository.VehicleRepository,
	events notify.Publisher,
	logger *logrus.Logger,
) VehicleBookingService {
	if events == nil {
		events = notify.Nop{}
	}
	return &vehicleBookingService{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		events:      events,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *vehicleBookingService) CreateBooking(ctx context.Context, in CreateVehicleBookingInput) (*models.VehicleBooking, error) {
	if !in.ReturnDate.After(in.PickupDate) {
		return nil, ErrInvalidRentalPeriod
	}

	if _, err := s.vehicleRepo.FindByID(ctx, in.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("load vehicle: %w", err)
	}

	booking := &models.VehicleBooking{
		Reference:      uuid.NewString(),
		Customer:       in.Customer,
		VehicleID:      in.VehicleID,
		PickupDate:     in.PickupDate,
		ReturnDate:     in.ReturnDate,
		PickupLocation: in.PickupLocation,
		Status:         models.StatusPending,
	}
	if err := s.bookingRepo.Create(ctx, s.bookingRepo.GetDB(), booking); err != nil {
		return nil, fmt.Errorf("create vehicle booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"vehicle_booking_id": booking.ID,
		"vehicle_id":         booking.VehicleID,
	}).Info("vehicle booking created")
	s.events.Publish(ctx, notify.VehicleEvent(notify.EventCreated, booking, booking.Customer.Email))

	return booking, nil
}

// lockBooking locks the vehicle row first, matching the adventure ledger's lock order.
func (s *vehicleBookingService) lockBooking(ctx context.Context, tx *gorm.DB, id uint) (*models.VehicleBooking, *models.Vehicle, error) {
	booking, err := s.bookingRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}

	vehicle, err := s.vehicleRepo.FindByIDForUpdate(ctx, tx, booking.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrVehicleNotFound
		}
		return nil, nil, err
	}

	booking, err = s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	return booking, vehicle, nil
}

func (s *vehicleBookingService) transition(ctx context.Context, id uint, fn func(tx *gorm.DB, b *models.VehicleBooking, v *models.Vehicle) error) (*models.VehicleBooking, error) {
	var result *models.VehicleBooking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, vehicle, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(tx, booking, vehicle); err != nil {
			return err
		}
		result = booking
		return nil
	})
	return result, err
}

func (s *vehicleBookingService) ApproveBooking(ctx context.Context, id uint, approvedBy string) (*models.VehicleBooking, error) {
	if approvedBy == "" {
		approvedBy = defaultReviewer
	}

	booking, err := s.transition(ctx, id, func(tx *gorm.DB, b *models.VehicleBooking, v *models.Vehicle) error {
		switch b.Status {
		case models.StatusApproved, models.StatusConfirmed:
			return ErrAlreadyApproved
		case models.StatusCancelled:
			return ErrBookingCancelled
		}
		if !v.Availability {
			return &CapacityError{Resource: "vehicle", Requested: 1, Available: 0}
		}
		if err := s.vehicleRepo.SetAvailability(ctx, tx, v.ID, false); err != nil {
			return fmt.Errorf("hold vehicle: %w", err)
		}

		b.Status = models.StatusApproved
		b.Review.MarkApproved(approvedBy, s.now())
		return s.bookingRepo.Save(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"vehicle_booking_id": booking.ID,
		"vehicle_id":         booking.VehicleID,
		"approved_by":        approvedBy,
	}).Info("vehicle booking approved")
	s.events.Publish(ctx, notify.VehicleEvent(notify.EventApproved, booking, approvedBy))

	return booking, nil
}

// ConfirmBooking records that an approved rental has been paid for.
func (s *vehicleBookingService) ConfirmBooking(ctx context.Context, id uint, actor string) (*models.VehicleBooking, error) {
	booking, err := s.transition(ctx, id, func(tx *gorm.DB, b *models.VehicleBooking, _ *models.Vehicle) error {
		if b.Status != models.StatusApproved {
			return ErrInvalidTransition
		}
		b.Status = models.StatusConfirmed
		return s.bookingRepo.Save(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("vehicle_booking_id", booking.ID).Info("vehicle booking confirmed")
	s.events.Publish(ctx, notify.VehicleEvent(notify.EventConfirmed, booking, actor))

	return booking, nil
}

func (s *vehicleBookingService) RejectBooking(ctx context.Context, id uint, rejectedBy, reason string) (*models.VehicleBooking, error) {
	if rejectedBy == "" {
		rejectedBy = defaultReviewer
	}

	changed := false
	booking, err := s.transition(ctx, id, func(tx *gorm.DB, b *models.VehicleBooking, v *models.Vehicle) error {
		switch b.Status {
		case models.StatusRejected:
			return nil
		case models.StatusCancelled:
			return ErrBookingCancelled
		}
		if b.Historical() {
			if err := s.vehicleRepo.SetAvailability(ctx, tx, v.ID, true); err != nil {
				return fmt.Errorf("release vehicle: %w", err)
			}
		}

		b.Status = models.StatusRejected
		b.Review.MarkRejected(rejectedBy, reason, s.now())
		changed = true
		return s.bookingRepo.Save(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return booking, nil
	}

	s.logger.WithFields(logrus.Fields{
		"vehicle_booking_id": booking.ID,
		"vehicle_id":         booking.VehicleID,
		"rejected_by":        rejectedBy,
	}).Info("vehicle booking rejected")
	s.events.Publish(ctx, notify.VehicleEvent(notify.EventRejected, booking, rejectedBy))

	return booking, nil
}

func (s *vehicleBookingService) CancelBooking(ctx context.Context, id uint) (*models.VehicleBooking, error) {
	booking, err := s.transition(ctx, id, func(tx *gorm.DB, b *models.VehicleBooking, _ *models.Vehicle) error {
		if b.Status != models.StatusPending {
			return ErrInvalidTransition
		}
		now := s.now()
		b.Status = models.StatusCancelled
		b.Review.CancelledAt = &now
		return s.bookingRepo.Save(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("vehicle_booking_id", booking.ID).Info("vehicle booking cancelled")
	s.events.Publish(ctx, notify.VehicleEvent(notify.EventCancelled, booking, booking.Customer.Email))

	return booking, nil
}

func (s *vehicleBookingService) CancelBookingByReference(ctx context.Context, reference string) (*models.VehicleBooking, error) {
	booking, err := s.bookingRepo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return s.CancelBooking(ctx, booking.ID)
}

// DeleteBooking removes a booking; approved or confirmed ones need a superadmin and free the vehicle.
func (s *vehicleBookingService) DeleteBooking(ctx context.Context, id uint, role models.Role, actor string) error {
	booking, err := s.transition(ctx, id, func(tx *gorm.DB, b *models.VehicleBooking, v *models.Vehicle) error {
		if b.Historical() {
			if role != models.RoleSuperAdmin {
				return ErrForbidden
			}
			if err := s.vehicleRepo.SetAvailability(ctx, tx, v.ID, true); err != nil {
				return fmt.Errorf("release vehicle: %w", err)
			}
		}
		return s.bookingRepo.Delete(ctx, tx, b.ID)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"vehicle_booking_id": booking.ID,
		"status":             booking.Status,
		"actor":              actor,
	}).Info("vehicle booking deleted")
	s.events.Publish(ctx, notify.VehicleEvent(notify.EventDeleted, booking, actor))

	return nil
}

func (s *vehicleBookingService) GetBooking(ctx context.Context, id uint) (*models.VehicleBooking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, s.bookingRepo.GetDB(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *vehicleBookingService) ListBookings(ctx context.Context, filter repository.VehicleBookingFilter) ([]models.VehicleBooking, error) {
	return s.bookingRepo.List(ctx, filter)
}
