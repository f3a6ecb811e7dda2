package notify

import (
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated    EventType = "created"
	EventApproved   EventType = "approved"
	EventConfirmed  EventType = "confirmed"
	EventRejected   EventType = "rejected"
	EventCancelled  EventType = "cancelled"
	EventDeleted    EventType = "deleted"
	EventReconciled EventType = "reconciled"
)

type BookingKind string

const (
	KindAdventure BookingKind = "adventure"
	KindVehicle   BookingKind = "vehicle"
)

// Event describes a committed ledger change.
type Event struct {
	ID          string               `json:"id"`
	Type        EventType            `json:"type"`
	Kind        BookingKind          `json:"kind"`
	BookingID   uint                 `json:"booking_id,omitempty"`
	Reference   string               `json:"reference,omitempty"`
	Status      models.BookingStatus `json:"status,omitempty"`
	AdventureID *uint                `json:"adventure_id,omitempty"`
	VehicleID   *uint                `json:"vehicle_id,omitempty"`
	Seats       int                  `json:"seats,omitempty"`
	BookedSeats *int                 `json:"booked_seats,omitempty"`
	Actor       string               `json:"actor,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	OccurredAt  time.Time            `json:"occurred_at"`
}

func (e Event) RoutingKey() string {
	return "booking." + string(e.Type)
}

func AdventureEvent(t EventType, b *models.AdventureBooking, bookedSeats *int, actor string) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		Kind:        KindAdventure,
		BookingID:   b.ID,
		Reference:   b.Reference,
		Status:      b.Status,
		AdventureID: b.AdventureID,
		Seats:       b.Seats(),
		BookedSeats: bookedSeats,
		Actor:       actor,
		Reason:      b.Review.RejectionReason,
		OccurredAt:  time.Now().UTC(),
	}
}

func VehicleEvent(t EventType, b *models.VehicleBooking, actor string) Event {
	vehicleID := b.VehicleID
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Kind:       KindVehicle,
		BookingID:  b.ID,
		Reference:  b.Reference,
		Status:     b.Status,
		VehicleID:  &vehicleID,
		Seats:      1,
		Actor:      actor,
		Reason:     b.Review.RejectionReason,
		OccurredAt: time.Now().UTC(),
	}
}

// ReconciledEvent reports a counter the reconciler had to correct.
func ReconciledEvent(adventureID uint, before, after int) Event {
	id := adventureID
	return Event{
		ID:          uuid.NewString(),
		Type:        EventReconciled,
		Kind:        KindAdventure,
		AdventureID: &id,
		Seats:       after - before,
		BookedSeats: &after,
		Actor:       "reconciler",
		OccurredAt:  time.Now().UTC(),
	}
}
