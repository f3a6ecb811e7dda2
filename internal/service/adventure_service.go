package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/cache"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Availability is a point-in-time view of an adventure's seat ledger.
type Availability struct {
	AdventureID     uint      `json:"adventure_id"`
	MaxParticipants int       `json:"max_participants"`
	BookedSeats     int       `json:"booked_seats"`
	AvailableSeats  int       `json:"available_seats"`
	CheckedAt       time.Time `json:"checked_at"`
}

// AdventureUpdate carries the catalog fields to change; nil fields are left alone.
type AdventureUpdate struct {
	Title           *string
	Description     *string
	Location        *string
	Price           *float64
	DurationDays    *int
	StartDate       *time.Time
	MaxParticipants *int
	IsActive        *bool
}

type AvailabilityCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	Generation(ctx context.Context, key string) (int64, error)
	SetJSONAt(ctx context.Context, key string, v any, gen int64) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type AdventureService interface {
	CreateAdventure(ctx context.Context, adventure *models.Adventure) error
	GetAdventure(ctx context.Context, id uint) (*models.Adventure, error)
	ListAdventures(ctx context.Context, activeOnly bool) ([]models.Adventure, error)
	UpdateAdventure(ctx context.Context, id uint, upd AdventureUpdate) (*models.Adventure, error)
	DeleteAdventure(ctx context.Context, id uint) error
	GetAvailability(ctx context.Context, id uint) (*Availability, error)
}

type adventureService struct {
	adventureRepo repository.AdventureRepository
	bookingRepo   repository.BookingRepository
	cache         AvailabilityCache
	logger        *logrus.Logger
}

// NewAdventureService accepts a nil cache; availability is then always read from the database.
func NewAdventureService(
	adventureRepo repository.AdventureRepository,
	bookingRepo repository.BookingRepository,
	availabilityCache AvailabilityCache,
	logger *logrus.Logger,
) AdventureService {
	return &adventureService{
		adventureRepo: adventureRepo,
		bookingRepo:   bookingRepo,
		cache:         availabilityCache,
		logger:        logger,
	}
}

func (s *adventureService) CreateAdventure(ctx context.Context, adventure *models.Adventure) error {
	if adventure.MaxParticipants < 0 {
		return ErrInvalidCapacity
	}
	adventure.BookedSeats = 0
	if err := s.adventureRepo.Create(ctx, adventure); err != nil {
		return fmt.Errorf("create adventure: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"adventure_id":     adventure.ID,
		"max_participants": adventure.MaxParticipants,
	}).Info("adventure created")
	return nil
}

func (s *adventureService) GetAdventure(ctx context.Context, id uint) (*models.Adventure, error) {
	adventure, err := s.adventureRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdventureNotFound
		}
		return nil, err
	}
	return adventure, nil
}

func (s *adventureService) ListAdventures(ctx context.Context, activeOnly bool) ([]models.Adventure, error) {
	return s.adventureRepo.FindAll(ctx, activeOnly)
}

func (s *adventureService) UpdateAdventure(ctx context.Context, id uint, upd AdventureUpdate) (*models.Adventure, error) {
	var result *models.Adventure
	err := s.adventureRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		adventure, err := s.adventureRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdventureNotFound
			}
			return err
		}

		applyAdventureUpdate(adventure, upd)
		if adventure.MaxParticipants < adventure.BookedSeats || adventure.MaxParticipants < 0 {
			return ErrInvalidCapacity
		}

		if err := s.adventureRepo.UpdateCatalog(ctx, tx, adventure); err != nil {
			return fmt.Errorf("update adventure: %w", err)
		}
		result = adventure
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.logger.WithField("adventure_id", id).Info("adventure updated")
	return result, nil
}

func applyAdventureUpdate(a *models.Adventure, upd AdventureUpdate) {
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.Location != nil {
		a.Location = *upd.Location
	}
	if upd.Price != nil {
		a.Price = *upd.Price
	}
	if upd.DurationDays != nil {
		a.DurationDays = *upd.DurationDays
	}
	if upd.StartDate != nil {
		a.StartDate = upd.StartDate
	}
	if upd.MaxParticipants != nil {
		a.MaxParticipants = *upd.MaxParticipants
	}
	if upd.IsActive != nil {
		a.IsActive = *upd.IsActive
	}
}

// DeleteAdventure refuses while any booking still references the adventure.
func (s *adventureService) DeleteAdventure(ctx context.Context, id uint) error {
	err := s.adventureRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.adventureRepo.FindByIDForUpdate(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdventureNotFound
			}
			return err
		}

		count, err := s.bookingRepo.CountByAdventure(ctx, tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAdventureInUse
		}
		return s.adventureRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.WithField("adventure_id", id).Info("adventure deleted")
	return nil
}

func (s *adventureService) GetAvailability(ctx context.Context, id uint) (*Availability, error) {
	key := cache.AvailabilityKey(id)
	gen := int64(-1)
	if s.cache != nil {
		var cached Availability
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).WithField("adventure_id", id).Warn("availability cache read failed")
		}
		if hit {
			return &cached, nil
		}
		// Taken before the read: an invalidation landing after it voids the fill.
		if g, err := s.cache.Generation(ctx, key); err != nil {
			s.logger.WithError(err).WithField("adventure_id", id).Warn("availability cache generation read failed")
		} else {
			gen = g
		}
	}

	adventure, err := s.GetAdventure(ctx, id)
	if err != nil {
		return nil, err
	}
	availability := &Availability{
		AdventureID:     adventure.ID,
		MaxParticipants: adventure.MaxParticipants,
		BookedSeats:     adventure.BookedSeats,
		AvailableSeats:  adventure.AvailableSeats(),
		CheckedAt:       time.Now().UTC(),
	}

	if s.cache != nil && gen >= 0 {
		stored, err := s.cache.SetJSONAt(ctx, key, availability, gen)
		if err != nil {
			s.logger.WithError(err).WithField("adventure_id", id).Warn("availability cache write failed")
		} else if !stored {
			s.logger.WithField("adventure_id", id).Debug("availability invalidated during read; not cached")
		}
	}
	return availability, nil
}

func (s *adventureService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.AvailabilityKey(id)); err != nil {
		s.logger.WithError(err).WithField("adventure_id", id).Warn("availability cache invalidation failed")
	}
}
