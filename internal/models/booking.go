package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Customer holds the contact fields shared by both booking kinds.
type Customer struct {
	FullName    string `gorm:"not null" json:"full_name"`
	Email       string `gorm:"not null;index" json:"email"`
	Phone       string `gorm:"not null" json:"phone"`
	Nationality string `json:"nationality,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Review holds who moved a booking out of pending, and when.
type Review struct {
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      string     `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

func (r *Review) MarkApproved(by string, at time.Time) {
	r.ApprovedBy = by
	r.ApprovedAt = &at
}

func (r *Review) MarkRejected(by, reason string, at time.Time) {
	r.RejectedBy = by
	r.RejectedAt = &at
	r.RejectionReason = reason
}

type AdventureBooking struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	Reference            string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	Customer             Customer      `gorm:"embedded" json:"customer"`
	AdventureID          *uint         `gorm:"index" json:"adventure_id,omitempty"`
	NumberOfParticipants int           `gorm:"not null;default:1;check:number_of_participants > 0" json:"number_of_participants"`
	PreferredDate        *time.Time    `json:"preferred_date,omitempty"`
	Status               BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Review               Review        `gorm:"embedded" json:"review"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`

	Adventure *Adventure `gorm:"foreignKey:AdventureID;constraint:OnDelete:RESTRICT" json:"adventure,omitempty"`
}

// HoldsSeats reports whether the booking is counted in its adventure's booked seats.
func (b *AdventureBooking) HoldsSeats() bool {
	return b.Status == StatusApproved && b.AdventureID != nil
}

// Seats is the number of seats the booking asks for; legacy rows with 0 count as 1.
func (b *AdventureBooking) Seats() int {
	if b.NumberOfParticipants < 1 {
		return 1
	}
	return b.NumberOfParticipants
}
