package repository

import (
	"context"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	FindByID(ctx context.Context, id uint) (*models.Vehicle, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error)
	FindAll(ctx context.Context, availableOnly bool) ([]models.Vehicle, error)
	SetAvailability(ctx context.Context, tx *gorm.DB, id uint, available bool) error
	GetDB() *gorm.DB
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&vehicle, id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindAll(ctx context.Context, availableOnly bool) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	q := r.db.WithContext(ctx)
	if availableOnly {
		q = q.Where("availability = ?", true)
	}
	if err := q.Order("id ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) SetAvailability(ctx context.Context, tx *gorm.DB, id uint, available bool) error {
	return tx.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Update("availability", available).Error
}
