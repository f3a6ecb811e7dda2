package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Publisher receives events after the transaction that produced them has committed.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Sink is one delivery target. A failing sink never blocks the others.
type Sink interface {
	Name() string
	Send(ctx context.Context, event Event) error
}

type Fanout struct {
	sinks  []Sink
	logger *logrus.Logger
}

func NewFanout(logger *logrus.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

func (f *Fanout) Add(sink Sink) {
	f.sinks = append(f.sinks, sink)
}

// deliveryTimeout bounds one event's delivery across all sinks.
const deliveryTimeout = 5 * time.Second

// Publish delivers to every sink. The caller's cancellation is detached so a
// client that hangs up right after commit still gets its event delivered.
func (f *Fanout) Publish(ctx context.Context, event Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	for _, s := range f.sinks {
		if err := s.Send(ctx, event); err != nil {
			f.logger.WithFields(logrus.Fields{
				"sink":       s.Name(),
				"event_id":   event.ID,
				"event_type": event.Type,
				"booking_id": event.BookingID,
				"error":      err.Error(),
			}).Warn("event delivery failed")
		}
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
