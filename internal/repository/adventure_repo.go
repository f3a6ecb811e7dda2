package repository

import (
	"context"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// catalogColumns are the adventure columns owned by the catalog; booked_seats is owned by the ledger.
var catalogColumns = []string{
	"title", "description", "location", "price", "duration_days",
	"start_date", "max_participants", "is_active", "updated_at",
}

type AdventureRepository interface {
	Create(ctx context.Context, adventure *models.Adventure) error
	FindByID(ctx context.Context, id uint) (*models.Adventure, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Adventure, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.Adventure, error)
	ListIDs(ctx context.Context) ([]uint, error)
	UpdateCatalog(ctx context.Context, tx *gorm.DB, adventure *models.Adventure) error
	Upsert(ctx context.Context, adventure *models.Adventure) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	AddSeats(ctx context.Context, tx *gorm.DB, id uint, seats int) (bool, error)
	SetBookedSeats(ctx context.Context, tx *gorm.DB, id uint, seats int) error
	GetDB() *gorm.DB
}

type adventureRepository struct {
	db *gorm.DB
}

func NewAdventureRepository(db *gorm.DB) AdventureRepository {
	return &adventureRepository{db: db}
}

func (r *adventureRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *adventureRepository) Create(ctx context.Context, adventure *models.Adventure) error {
	return r.db.WithContext(ctx).Create(adventure).Error
}

func (r *adventureRepository) FindByID(ctx context.Context, id uint) (*models.Adventure, error) {
	var adventure models.Adventure
	if err := r.db.WithContext(ctx).First(&adventure, id).Error; err != nil {
		return nil, err
	}
	return &adventure, nil
}

// FindByIDForUpdate acquires a row-level lock on the adventure within the given transaction.
// Every ledger transition takes this lock before touching its bookings.
func (r *adventureRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Adventure, error) {
	var adventure models.Adventure
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&adventure, id).Error; err != nil {
		return nil, err
	}
	return &adventure, nil
}

func (r *adventureRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.Adventure, error) {
	var adventures []models.Adventure
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("id ASC").Find(&adventures).Error; err != nil {
		return nil, err
	}
	return adventures, nil
}

func (r *adventureRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Adventure{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *adventureRepository) UpdateCatalog(ctx context.Context, tx *gorm.DB, adventure *models.Adventure) error {
	return tx.WithContext(ctx).
		Model(adventure).
		Select(catalogColumns).
		Updates(adventure).Error
}

// Upsert inserts or refreshes catalog fields of an adventure synced from the catalog feed.
// An update that would leave max_participants below booked_seats is skipped and
// reported as false; the row is left untouched.
func (r *adventureRepository) Upsert(ctx context.Context, adventure *models.Adventure) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(catalogColumns),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "adventures.booked_seats <= excluded.max_participants"},
		}},
	}).Omit("booked_seats").Create(adventure)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *adventureRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Adventure{}, id).Error
}

// AddSeats moves the counter by seats (negative releases) and refuses to exceed capacity.
// Releases are floored at zero. It reports false when the guard rejected the write.
func (r *adventureRepository) AddSeats(ctx context.Context, tx *gorm.DB, id uint, seats int) (bool, error) {
	q := tx.WithContext(ctx).Model(&models.Adventure{}).Where("id = ?", id)

	var res *gorm.DB
	if seats >= 0 {
		res = q.Where("booked_seats + ? <= max_participants", seats).
			Update("booked_seats", gorm.Expr("booked_seats + ?", seats))
	} else {
		res = q.Update("booked_seats", gorm.Expr("GREATEST(booked_seats - ?, 0)", -seats))
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *adventureRepository) SetBookedSeats(ctx context.Context, tx *gorm.DB, id uint, seats int) error {
	return tx.WithContext(ctx).
		Model(&models.Adventure{}).
		Where("id = ?", id).
		Update("booked_seats", seats).Error
}
