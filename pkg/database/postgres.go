package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB opens the pool and migrates the ledger tables.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Adventure{},
		&models.AdventureBooking{},
		&models.Vehicle{},
		&models.VehicleBooking{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Backs the ledger lookups: sum of approved seats per adventure.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_adventure_bookings_approved
		ON adventure_bookings (adventure_id)
		WHERE status = 'approved'
	`).Error; err != nil {
		return fmt.Errorf("create approved-seat index: %w", err)
	}
	return nil
}
