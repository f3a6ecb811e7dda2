package notify

import (
	"context"
	"encoding/json"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/audit"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/realtime"
	"github.com/Eursukkul/booking-microservice/adventure-service/pkg/cache"
)

type brokerPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// BrokerSink forwards events to the message broker under "booking.<type>".
type BrokerSink struct {
	pub brokerPublisher
}

func NewBrokerSink(pub brokerPublisher) *BrokerSink {
	return &BrokerSink{pub: pub}
}

func (s *BrokerSink) Name() string { return "broker" }

func (s *BrokerSink) Send(ctx context.Context, e Event) error {
	return s.pub.Publish(ctx, e.RoutingKey(), e)
}

type cacheStore interface {
	Delete(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel string, v any) error
}

// CacheSink drops stale availability snapshots and announces the change on redis pub/sub.
type CacheSink struct {
	cache cacheStore
}

func NewCacheSink(c cacheStore) *CacheSink {
	return &CacheSink{cache: c}
}

func (s *CacheSink) Name() string { return "cache" }

func (s *CacheSink) Send(ctx context.Context, e Event) error {
	if e.AdventureID != nil {
		if err := s.cache.Delete(ctx, cache.AvailabilityKey(*e.AdventureID)); err != nil {
			return err
		}
	}
	return s.cache.Publish(ctx, cache.UpdatesChannel, e)
}

type broadcaster interface {
	Broadcast(msg []byte) bool
}

// HubSink pushes events to connected dashboard clients.
type HubSink struct {
	hub broadcaster
}

func NewHubSink(hub broadcaster) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Name() string { return "realtime" }

func (s *HubSink) Send(_ context.Context, e Event) error {
	data, err := json.Marshal(realtime.Message{Type: e.RoutingKey(), Data: e})
	if err != nil {
		return err
	}
	s.hub.Broadcast(data)
	return nil
}

type auditRecorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// AuditSink appends booking transitions to the audit trail. Reconciler events carry no booking and are skipped.
type AuditSink struct {
	store auditRecorder
}

func NewAuditSink(store auditRecorder) *AuditSink {
	return &AuditSink{store: store}
}

func (s *AuditSink) Name() string { return "audit" }

func (s *AuditSink) Send(ctx context.Context, e Event) error {
	if e.BookingID == 0 {
		return nil
	}
	return s.store.Record(ctx, audit.Entry{
		EventID:     e.ID,
		Kind:        string(e.Kind),
		Type:        string(e.Type),
		BookingID:   e.BookingID,
		Reference:   e.Reference,
		Status:      string(e.Status),
		AdventureID: e.AdventureID,
		VehicleID:   e.VehicleID,
		Seats:       e.Seats,
		BookedSeats: e.BookedSeats,
		Actor:       e.Actor,
		Reason:      e.Reason,
		OccurredAt:  e.OccurredAt,
	})
}
