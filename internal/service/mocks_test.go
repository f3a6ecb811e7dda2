package service

import (
	"context"
	"errors"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/notify"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/repository"
	"gorm.io/gorm"
)

// --- Mock AdventureRepository ---

type mockAdventureRepo struct {
	findByIDFn func(ctx context.Context, id uint) (*models.Adventure, error)
	createFn   func(ctx context.Context, a *models.Adventure) error
}

func (m *mockAdventureRepo) Create(ctx context.Context, a *models.Adventure) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	a.ID = 1
	return nil
}
func (m *mockAdventureRepo) FindByID(ctx context.Context, id uint) (*models.Adventure, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockAdventureRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Adventure, error) {
	return m.FindByID(ctx, id)
}
func (m *mockAdventureRepo) FindAll(ctx context.Context, activeOnly bool) ([]models.Adventure, error) {
	return nil, nil
}
func (m *mockAdventureRepo) ListIDs(ctx context.Context) ([]uint, error) { return nil, nil }
func (m *mockAdventureRepo) UpdateCatalog(ctx context.Context, tx *gorm.DB, a *models.Adventure) error {
	return nil
}
func (m *mockAdventureRepo) Upsert(ctx context.Context, a *models.Adventure) (bool, error) {
	return true, nil
}
func (m *mockAdventureRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return nil
}
func (m *mockAdventureRepo) AddSeats(ctx context.Context, tx *gorm.DB, id uint, seats int) (bool, error) {
	return true, nil
}
func (m *mockAdventureRepo) SetBookedSeats(ctx context.Context, tx *gorm.DB, id uint, seats int) error {
	return nil
}
func (m *mockAdventureRepo) GetDB() *gorm.DB { return nil }

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	created   []*models.AdventureBooking
	createFn  func(ctx context.Context, b *models.AdventureBooking) error
	findFn    func(ctx context.Context, id uint) (*models.AdventureBooking, error)
	findRefFn func(ctx context.Context, reference string) (*models.AdventureBooking, error)
	listFn    func(ctx context.Context, f repository.BookingFilter) ([]models.AdventureBooking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.AdventureBooking) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, b); err != nil {
			return err
		}
	}
	b.ID = uint(len(m.created) + 1)
	m.created = append(m.created, b)
	return nil
}
func (m *mockBookingRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AdventureBooking, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.AdventureBooking, error) {
	return m.FindByID(ctx, tx, id)
}
func (m *mockBookingRepo) FindByReference(ctx context.Context, reference string) (*models.AdventureBooking, error) {
	if m.findRefFn != nil {
		return m.findRefFn(ctx, reference)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockBookingRepo) List(ctx context.Context, f repository.BookingFilter) ([]models.AdventureBooking, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, nil
}
func (m *mockBookingRepo) Save(ctx context.Context, tx *gorm.DB, b *models.AdventureBooking) error {
	return nil
}
func (m *mockBookingRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }
func (m *mockBookingRepo) SumApprovedSeats(ctx context.Context, tx *gorm.DB, adventureID uint) (int, error) {
	return 0, nil
}
func (m *mockBookingRepo) CountByAdventure(ctx context.Context, tx *gorm.DB, adventureID uint) (int64, error) {
	return 0, nil
}
func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

// --- Mock VehicleRepository ---

type mockVehicleRepo struct {
	findByIDFn func(ctx context.Context, id uint) (*models.Vehicle, error)
}

func (m *mockVehicleRepo) Create(ctx context.Context, v *models.Vehicle) error { return nil }
func (m *mockVehicleRepo) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockVehicleRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Vehicle, error) {
	return m.FindByID(ctx, id)
}
func (m *mockVehicleRepo) FindAll(ctx context.Context, availableOnly bool) ([]models.Vehicle, error) {
	return nil, nil
}
func (m *mockVehicleRepo) SetAvailability(ctx context.Context, tx *gorm.DB, id uint, available bool) error {
	return nil
}
func (m *mockVehicleRepo) GetDB() *gorm.DB { return nil }

// --- Mock VehicleBookingRepository ---

type mockVehicleBookingRepo struct {
	created []*models.VehicleBooking
}

func (m *mockVehicleBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.VehicleBooking) error {
	b.ID = uint(len(m.created) + 1)
	m.created = append(m.created, b)
	return nil
}
func (m *mockVehicleBookingRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.VehicleBooking, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockVehicleBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.VehicleBooking, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockVehicleBookingRepo) FindByReference(ctx context.Context, reference string) (*models.VehicleBooking, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockVehicleBookingRepo) List(ctx context.Context, f repository.VehicleBookingFilter) ([]models.VehicleBooking, error) {
	return nil, nil
}
func (m *mockVehicleBookingRepo) Save(ctx context.Context, tx *gorm.DB, b *models.VehicleBooking) error {
	return nil
}
func (m *mockVehicleBookingRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return nil
}
func (m *mockVehicleBookingRepo) GetDB() *gorm.DB { return nil }

// --- Recording publisher ---

type recordingPublisher struct {
	events []notify.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e notify.Event) {
	p.events = append(p.events, e)
}

// --- Fake availability cache ---

type fakeCache struct {
	entries map[string]Availability
	gens    map[string]int64
	getErr  error
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]Availability{}, gens: map[string]int64{}}
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	*(dst.(*Availability)) = v
	return true, nil
}

func (c *fakeCache) Generation(ctx context.Context, key string) (int64, error) {
	return c.gens[key], nil
}

func (c *fakeCache) SetJSONAt(ctx context.Context, key string, v any, gen int64) (bool, error) {
	a, ok := v.(*Availability)
	if !ok {
		return false, errors.New("unexpected cache value")
	}
	if c.gens[key] != gen {
		return false, nil
	}
	c.entries[key] = *a
	return true, nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
		c.deleted = append(c.deleted, k)
	}
	return nil
}
