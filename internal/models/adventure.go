package models

import "time"

type Adventure struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Price           float64    `gorm:"not null;default:0" json:"price"`
	DurationDays    int        `gorm:"not null;default:0" json:"duration_days"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	MaxParticipants int        `gorm:"not null;default:0;check:max_participants >= 0" json:"max_participants"`
	BookedSeats     int        `gorm:"not null;default:0;check:booked_seats >= 0" json:"booked_seats"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// AvailableSeats never goes negative, even when the counter has drifted past capacity.
func (a *Adventure) AvailableSeats() int {
	if a.BookedSeats >= a.MaxParticipants {
		return 0
	}
	return a.MaxParticipants - a.BookedSeats
}

func (a *Adventure) CanSeat(n int) bool {
	return n <= a.AvailableSeats()
}

// ReleasedSeats returns the counter after giving back n seats, floored at zero.
func (a *Adventure) ReleasedSeats(n int) int {
	if n >= a.BookedSeats {
		return 0
	}
	return a.BookedSeats - n
}
