package models

import "time"

type Vehicle struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	PlateNumber  string    `gorm:"uniqueIndex;not null" json:"plate_number"`
	DailyRate    float64   `gorm:"not null;default:0" json:"daily_rate"`
	Seats        int       `gorm:"not null;default:0" json:"seats"`
	Availability bool      `gorm:"not null;default:true" json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type VehicleBooking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Reference      string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	Customer       Customer      `gorm:"embedded" json:"customer"`
	VehicleID      uint          `gorm:"not null;index" json:"vehicle_id"`
	PickupDate     time.Time     `gorm:"not null" json:"pickup_date"`
	ReturnDate     time.Time     `gorm:"not null" json:"return_date"`
	PickupLocation string        `json:"pickup_location,omitempty"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Review         Review        `gorm:"embedded" json:"review"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:RESTRICT" json:"vehicle,omitempty"`
}

// Historical bookings hold the vehicle; deleting them needs elevated privilege.
func (b *VehicleBooking) Historical() bool {
	return b.Status == StatusApproved || b.Status == StatusConfirmed
}
