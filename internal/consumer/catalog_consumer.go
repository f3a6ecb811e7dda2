package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// CatalogMessage is the adventure payload published by the catalog owner.
// It never carries booked seats; the counter belongs to this service.
type CatalogMessage struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Price           float64    `json:"price"`
	DurationDays    int        `json:"durationDays"`
	StartDate       *time.Time `json:"startDate"`
	MaxParticipants int        `json:"maxParticipants"`
	IsActive        bool       `json:"isActive"`
}

var errInvalidCatalogMessage = errors.New("catalog message needs an id, a title and a non-negative capacity")

func (m CatalogMessage) validate() error {
	if m.ID == 0 || m.Title == "" || m.MaxParticipants < 0 {
		return errInvalidCatalogMessage
	}
	return nil
}

func (m CatalogMessage) toModel() *models.Adventure {
	return &models.Adventure{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Location:        m.Location,
		Price:           m.Price,
		DurationDays:    m.DurationDays,
		StartDate:       m.StartDate,
		MaxParticipants: m.MaxParticipants,
		IsActive:        m.IsActive,
	}
}

// AdventureUpserter reports false when the stored adventure already holds more
// booked seats than the incoming capacity.
type AdventureUpserter interface {
	Upsert(ctx context.Context, adventure *models.Adventure) (bool, error)
}

// AvailabilityInvalidator drops cached availability after a catalog change.
type AvailabilityInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

type CatalogConsumer struct {
	repo   AdventureUpserter
	cache  AvailabilityInvalidator
	keyFn  func(id uint) string
	logger *logrus.Logger
}

// NewCatalogConsumer accepts a nil cache.
func NewCatalogConsumer(repo AdventureUpserter, cache AvailabilityInvalidator, keyFn func(uint) string, logger *logrus.Logger) *CatalogConsumer {
	return &CatalogConsumer{repo: repo, cache: cache, keyFn: keyFn, logger: logger}
}

// Start handles deliveries until ctx is cancelled or the channel closes.
func (cc *CatalogConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				cc.logger.Info("catalog consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					cc.logger.Warn("catalog channel closed, stopping consumer")
					return
				}
				cc.handleMessage(ctx, msg)
			}
		}
	}()
}

func (cc *CatalogConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	log := cc.logger.WithField("routing_key", msg.RoutingKey)

	var m CatalogMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		log.WithError(err).Error("failed to unmarshal catalog message")
		cc.settle(log, msg.Nack(false, false))
		return
	}
	if err := m.validate(); err != nil {
		log.WithError(err).WithField("adventure_id", m.ID).Error("dropping catalog message")
		cc.settle(log, msg.Nack(false, false))
		return
	}

	applied, err := cc.repo.Upsert(ctx, m.toModel())
	if err != nil {
		log.WithError(err).WithField("adventure_id", m.ID).Error("failed to upsert adventure")
		cc.settle(log, msg.Nack(false, true))
		return
	}
	if !applied {
		log.WithFields(logrus.Fields{
			"adventure_id":     m.ID,
			"max_participants": m.MaxParticipants,
		}).Warn("dropping catalog update: capacity below booked seats")
		cc.settle(log, msg.Nack(false, false))
		return
	}

	if cc.cache != nil {
		if err := cc.cache.Delete(ctx, cc.keyFn(m.ID)); err != nil {
			log.WithError(err).WithField("adventure_id", m.ID).Warn("availability cache invalidation failed")
		}
	}

	log.WithFields(logrus.Fields{
		"adventure_id":     m.ID,
		"title":            m.Title,
		"max_participants": m.MaxParticipants,
	}).Info("synced adventure")
	cc.settle(log, msg.Ack(false))
}

func (cc *CatalogConsumer) settle(log *logrus.Entry, err error) {
	if err != nil {
		log.WithError(err).Warn("failed to settle delivery")
	}
}
