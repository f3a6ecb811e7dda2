package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
)

// FlexibleID accepts an id sent either as a JSON number or a string.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

type CustomerRequest struct {
	FullName    string `json:"fullName" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=32"`
	Nationality string `json:"nationality" validate:"max=64"`
	Notes       string `json:"notes" validate:"max=2000"`
}

func (r CustomerRequest) ToModel() models.Customer {
	return models.Customer{
		FullName:    r.FullName,
		Email:       r.Email,
		Phone:       r.Phone,
		Nationality: r.Nationality,
		Notes:       r.Notes,
	}
}

type CreateAdventureBookingRequest struct {
	CustomerRequest
	AdventureID          FlexibleID `json:"adventureId"`
	NumberOfParticipants int        `json:"numberOfParticipants" validate:"gte=0"`
	PreferredDate        *time.Time `json:"preferredDate"`
}

type ApproveBookingRequest struct {
	ApprovedBy string `json:"approvedBy" validate:"max=120"`
}

type RejectBookingRequest struct {
	RejectedBy      string `json:"rejectedBy" validate:"max=120"`
	RejectionReason string `json:"rejectionReason" validate:"max=500"`
}

type CreateAdventureRequest struct {
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description"`
	Location        string     `json:"location" validate:"max=200"`
	Price           float64    `json:"price" validate:"gte=0"`
	DurationDays    int        `json:"durationDays" validate:"gte=0"`
	StartDate       *time.Time `json:"startDate"`
	MaxParticipants int        `json:"maxParticipants" validate:"gte=0"`
	IsActive        *bool      `json:"isActive"`
}

func (r CreateAdventureRequest) ToModel() *models.Adventure {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.Adventure{
		Title:           r.Title,
		Description:     r.Description,
		Location:        r.Location,
		Price:           r.Price,
		DurationDays:    r.DurationDays,
		StartDate:       r.StartDate,
		MaxParticipants: r.MaxParticipants,
		IsActive:        active,
	}
}

// UpdateAdventureRequest has no bookedSeats field; the counter is owned by the ledger.
type UpdateAdventureRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location" validate:"omitempty,max=200"`
	Price           *float64   `json:"price" validate:"omitempty,gte=0"`
	DurationDays    *int       `json:"durationDays" validate:"omitempty,gte=0"`
	StartDate       *time.Time `json:"startDate"`
	MaxParticipants *int       `json:"maxParticipants" validate:"omitempty,gte=0"`
	IsActive        *bool      `json:"isActive"`
}

type CreateVehicleRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Make        string  `json:"make" validate:"max=64"`
	Model       string  `json:"model" validate:"max=64"`
	PlateNumber string  `json:"plateNumber" validate:"required,max=16"`
	DailyRate   float64 `json:"dailyRate" validate:"gte=0"`
	Seats       int     `json:"seats" validate:"gte=0"`
}

func (r CreateVehicleRequest) ToModel() *models.Vehicle {
	return &models.Vehicle{
		Name:        r.Name,
		Make:        r.Make,
		Model:       r.Model,
		PlateNumber: r.PlateNumber,
		DailyRate:   r.DailyRate,
		Seats:       r.Seats,
	}
}

type SetAvailabilityRequest struct {
	Availability *bool `json:"availability" validate:"required"`
}

type CreateVehicleBookingRequest struct {
	CustomerRequest
	VehicleID      uint      `json:"vehicleId" validate:"required"`
	PickupDate     time.Time `json:"pickupDate" validate:"required"`
	ReturnDate     time.Time `json:"returnDate" validate:"required,gtfield=PickupDate"`
	PickupLocation string    `json:"pickupLocation" validate:"max=200"`
}
