package dto

import (
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
)

// Envelope wraps every successful response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Message(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

type ErrorResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	AvailableSeats *int   `json:"availableSeats,omitempty"`
}

type CustomerResponse struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type ReviewResponse struct {
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedBy      string     `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
}

type AdventureBookingResponse struct {
	ID        uint   `json:"id"`
	Reference string `json:"reference"`
	CustomerResponse
	AdventureID          *uint                `json:"adventureId,omitempty"`
	NumberOfParticipants int                  `json:"numberOfParticipants"`
	PreferredDate        *time.Time           `json:"preferredDate,omitempty"`
	Status               models.BookingStatus `json:"status"`
	ReviewResponse
	BookedSeats    *int      `json:"bookedSeats,omitempty"`
	AvailableSeats *int      `json:"availableSeats,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type AdventureResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Location        string     `json:"location,omitempty"`
	Price           float64    `json:"price"`
	DurationDays    int        `json:"durationDays"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	MaxParticipants int        `json:"maxParticipants"`
	BookedSeats     int        `json:"bookedSeats"`
	AvailableSeats  int        `json:"availableSeats"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type VehicleResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Make         string    `json:"make,omitempty"`
	Model        string    `json:"model,omitempty"`
	PlateNumber  string    `json:"plateNumber"`
	DailyRate    float64   `json:"dailyRate"`
	Seats        int       `json:"seats"`
	Availability bool      `json:"availability"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type VehicleBookingResponse struct {
	ID        uint   `json:"id"`
	Reference string `json:"reference"`
	CustomerResponse
	VehicleID      uint                 `json:"vehicleId"`
	PickupDate     time.Time            `json:"pickupDate"`
	ReturnDate     time.Time            `json:"returnDate"`
	PickupLocation string               `json:"pickupLocation,omitempty"`
	Status         models.BookingStatus `json:"status"`
	ReviewResponse
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCustomerResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{
		FullName:    c.FullName,
		Email:       c.Email,
		Phone:       c.Phone,
		Nationality: c.Nationality,
		Notes:       c.Notes,
	}
}

func toReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectedBy:      r.RejectedBy,
		RejectedAt:      r.RejectedAt,
		RejectionReason: r.RejectionReason,
		CancelledAt:     r.CancelledAt,
	}
}

// ToAdventureBookingResponse includes the adventure's counter when the booking carries a snapshot of it.
func ToAdventureBookingResponse(b *models.AdventureBooking) AdventureBookingResponse {
	resp := AdventureBookingResponse{
		ID:                   b.ID,
		Reference:            b.Reference,
		CustomerResponse:     toCustomerResponse(b.Customer),
		AdventureID:          b.AdventureID,
		NumberOfParticipants: b.NumberOfParticipants,
		PreferredDate:        b.PreferredDate,
		Status:               b.Status,
		ReviewResponse:       toReviewResponse(b.Review),
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
	if b.Adventure != nil {
		booked := b.Adventure.BookedSeats
		available := b.Adventure.AvailableSeats()
		resp.BookedSeats = &booked
		resp.AvailableSeats = &available
	}
	return resp
}

func ToAdventureBookingResponses(bookings []models.AdventureBooking) []AdventureBookingResponse {
	resp := make([]AdventureBookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToAdventureBookingResponse(&bookings[i])
	}
	return resp
}

func ToAdventureResponse(a *models.Adventure) AdventureResponse {
	return AdventureResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Location:        a.Location,
		Price:           a.Price,
		DurationDays:    a.DurationDays,
		StartDate:       a.StartDate,
		MaxParticipants: a.MaxParticipants,
		BookedSeats:     a.BookedSeats,
		AvailableSeats:  a.AvailableSeats(),
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func ToAdventureResponses(adventures []models.Adventure) []AdventureResponse {
	resp := make([]AdventureResponse, len(adventures))
	for i := range adventures {
		resp[i] = ToAdventureResponse(&adventures[i])
	}
	return resp
}

func ToVehicleResponse(v *models.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID,
		Name:         v.Name,
		Make:         v.Make,
		Model:        v.Model,
		PlateNumber:  v.PlateNumber,
		DailyRate:    v.DailyRate,
		Seats:        v.Seats,
		Availability: v.Availability,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func ToVehicleResponses(vehicles []models.Vehicle) []VehicleResponse {
	resp := make([]VehicleResponse, len(vehicles))
	for i := range vehicles {
		resp[i] = ToVehicleResponse(&vehicles[i])
	}
	return resp
}

func ToVehicleBookingResponse(b *models.VehicleBooking) VehicleBookingResponse {
	return VehicleBookingResponse{
		ID:               b.ID,
		Reference:        b.Reference,
		CustomerResponse: toCustomerResponse(b.Customer),
		VehicleID:        b.VehicleID,
		PickupDate:       b.PickupDate,
		ReturnDate:       b.ReturnDate,
		PickupLocation:   b.PickupLocation,
		Status:           b.Status,
		ReviewResponse:   toReviewResponse(b.Review),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func ToVehicleBookingResponses(bookings []models.VehicleBooking) []VehicleBookingResponse {
	resp := make([]VehicleBookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToVehicleBookingResponse(&bookings[i])
	}
	return resp
}
