package repository

import (
	"context"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingFilter struct {
	AdventureID *uint
	Status      *models.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.AdventureBooking) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AdventureBooking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.AdventureBooking, error)
	FindByReference(ctx context.Context, reference string) (*models.AdventureBooking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.AdventureBooking, error)
	Save(ctx context.Context, tx *gorm.DB, booking *models.AdventureBooking) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	SumApprovedSeats(ctx context.Context, tx *gorm.DB, adventureID uint) (int, error)
	CountByAdventure(ctx context.Context, tx *gorm.DB, adventureID uint) (int64, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.AdventureBooking) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AdventureBooking, error) {
	var booking models.AdventureBooking
	if err := tx.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.AdventureBooking, error) {
	var booking models.AdventureBooking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByReference looks a booking up by the reference handed to the customer.
func (r *bookingRepository) FindByReference(ctx context.Context, reference string) (*models.AdventureBooking, error) {
	var booking models.AdventureBooking
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.AdventureBooking, error) {
	var bookings []models.AdventureBooking
	q := r.db.WithContext(ctx)
	if filter.AdventureID != nil {
		q = q.Where("adventure_id = ?", *filter.AdventureID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if err := q.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.AdventureBooking) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.AdventureBooking{}, id).Error
}

// SumApprovedSeats is the ground truth the adventure's booked_seats must match.
func (r *bookingRepository) SumApprovedSeats(ctx context.Context, tx *gorm.DB, adventureID uint) (int, error) {
	var sum int
	err := tx.WithContext(ctx).
		Model(&models.AdventureBooking{}).
		Where("adventure_id = ? AND status = ?", adventureID, models.StatusApproved).
		Select("COALESCE(SUM(number_of_participants), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *bookingRepository) CountByAdventure(ctx context.Context, tx *gorm.DB, adventureID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.AdventureBooking{}).
		Where("adventure_id = ?", adventureID).
		Count(&count).Error
	return count, err
}
