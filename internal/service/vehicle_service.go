package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type VehicleService interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, availableOnly bool) ([]models.Vehicle, error)
	SetAvailability(ctx context.Context, id uint, available bool) (*models.Vehicle, error)
}

type vehicleService struct {
	repo   repository.VehicleRepository
	logger *logrus.Logger
}

func NewVehicleService(repo repository.VehicleRepository, logger *logrus.Logger) VehicleService {
	return &vehicleService{repo: repo, logger: logger}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.Availability = true
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	s.logger.WithField("vehicle_id", vehicle.ID).Info("vehicle created")
	return nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, availableOnly bool) ([]models.Vehicle, error) {
	return s.repo.FindAll(ctx, availableOnly)
}

// SetAvailability is the manual override, e.g. a car pulled for maintenance.
func (s *vehicleService) SetAvailability(ctx context.Context, id uint, available bool) (*models.Vehicle, error) {
	var result *models.Vehicle
	err := s.repo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vehicle, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleNotFound
			}
			return err
		}
		if err := s.repo.SetAvailability(ctx, tx, id, available); err != nil {
			return err
		}
		vehicle.Availability = available
		result = vehicle
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"vehicle_id":   id,
		"availability": available,
	}).Info("vehicle availability set")
	return result, nil
}
