package repository

import (
	"context"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleBookingFilter struct {
	VehicleID *uint
	Status    *models.BookingStatus
}

type VehicleBookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.VehicleBooking) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.VehicleBooking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.VehicleBooking, error)
	FindByReference(ctx context.Context, reference string) (*models.VehicleBooking, error)
	List(ctx context.Context, filter VehicleBookingFilter) ([]models.VehicleBooking, error)
	Save(ctx context.Context, tx *gorm.DB, booking *models.VehicleBooking) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetDB() *gorm.DB
}

type vehicleBookingRepository struct {
	db *gorm.DB
}

func NewVehicleBookingRepository(db *gorm.DB) VehicleBookingRepository {
	return &vehicleBookingRepository{db: db}
}

func (r *vehicleBookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *vehicleBookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.VehicleBooking) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *vehicleBookingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.VehicleBooking, error) {
	var booking models.VehicleBooking
	if err := tx.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *vehicleBookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.VehicleBooking, error) {
	var booking models.VehicleBooking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByReference looks a booking up by the reference handed to the customer.
func (r *vehicleBookingRepository) FindByReference(ctx context.Context, reference string) (*models.VehicleBooking, error) {
	var booking models.VehicleBooking
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *vehicleBookingRepository) List(ctx context.Context, filter VehicleBookingFilter) ([]models.VehicleBooking, error) {
	var bookings []models.VehicleBooking
	q := r.db.WithContext(ctx)
	if filter.VehicleID != nil {
		q = q.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if err := q.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *vehicleBookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.VehicleBooking) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Save(booking).Error
}

func (r *vehicleBookingRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.VehicleBooking{}, id).Error
}
