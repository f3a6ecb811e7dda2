package dto

import (
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/audit"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/service"
)

type AvailabilityResponse struct {
	AdventureID     uint      `json:"adventureId"`
	MaxParticipants int       `json:"maxParticipants"`
	BookedSeats     int       `json:"bookedSeats"`
	AvailableSeats  int       `json:"availableSeats"`
	CheckedAt       time.Time `json:"checkedAt"`
}

func ToAvailabilityResponse(a *service.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		AdventureID:     a.AdventureID,
		MaxParticipants: a.MaxParticipants,
		BookedSeats:     a.BookedSeats,
		AvailableSeats:  a.AvailableSeats,
		CheckedAt:       a.CheckedAt,
	}
}

type DriftReportResponse struct {
	AdventureID uint `json:"adventureId"`
	Before      int  `json:"before"`
	After       int  `json:"after"`
	Corrected   bool `json:"corrected"`
}

type ReconcileSummaryResponse struct {
	Checked   int                   `json:"checked"`
	Corrected []DriftReportResponse `json:"corrected"`
}

func ToDriftReportResponse(r *service.DriftReport) DriftReportResponse {
	return DriftReportResponse{
		AdventureID: r.AdventureID,
		Before:      r.Before,
		After:       r.After,
		Corrected:   r.Corrected,
	}
}

func ToReconcileSummaryResponse(s *service.ReconcileSummary) ReconcileSummaryResponse {
	resp := ReconcileSummaryResponse{Checked: s.Checked, Corrected: make([]DriftReportResponse, len(s.Corrected))}
	for i := range s.Corrected {
		resp.Corrected[i] = ToDriftReportResponse(&s.Corrected[i])
	}
	return resp
}

type HistoryEntryResponse struct {
	EventID     string    `json:"eventId"`
	Kind        string    `json:"kind"`
	Type        string    `json:"type"`
	BookingID   uint      `json:"bookingId"`
	Reference   string    `json:"reference,omitempty"`
	Status      string    `json:"status,omitempty"`
	AdventureID *uint     `json:"adventureId,omitempty"`
	VehicleID   *uint     `json:"vehicleId,omitempty"`
	Seats       int       `json:"seats"`
	BookedSeats *int      `json:"bookedSeats,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func ToHistoryResponses(entries []audit.Entry) []HistoryEntryResponse {
	resp := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = HistoryEntryResponse{
			EventID:     e.EventID,
			Kind:        e.Kind,
			Type:        e.Type,
			BookingID:   e.BookingID,
			Reference:   e.Reference,
			Status:      e.Status,
			AdventureID: e.AdventureID,
			VehicleID:   e.VehicleID,
			Seats:       e.Seats,
			BookedSeats: e.BookedSeats,
			Actor:       e.Actor,
			Reason:      e.Reason,
			OccurredAt:  e.OccurredAt,
		}
	}
	return resp
}
