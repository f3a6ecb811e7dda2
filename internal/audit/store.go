package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "booking_transitions"

// Entry is one row of a booking's transition history.
type Entry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID     string             `bson:"event_id" json:"event_id"`
	Kind        string             `bson:"kind" json:"kind"`
	Type        string             `bson:"type" json:"type"`
	BookingID   uint               `bson:"booking_id" json:"booking_id"`
	Reference   string             `bson:"reference,omitempty" json:"reference,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`
	AdventureID *uint              `bson:"adventure_id,omitempty" json:"adventure_id,omitempty"`
	VehicleID   *uint              `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	Seats       int                `bson:"seats" json:"seats"`
	BookedSeats *int               `bson:"booked_seats,omitempty" json:"booked_seats,omitempty"`
	Actor       string             `bson:"actor,omitempty" json:"actor,omitempty"`
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
	OccurredAt  time.Time          `bson:"occurred_at" json:"occurred_at"`
}

type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection(collectionName)}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "booking_id", Value: 1}, {Key: "occurred_at", Value: 1}},
			Options: options.Index().SetName("transitions_booking"),
		},
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("transitions_event_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("transition indexes: %w", err)
	}
	return nil
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if _, err := s.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// History returns a booking's transitions, oldest first.
func (s *Store) History(ctx context.Context, kind string, bookingID uint) ([]Entry, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"kind": kind, "booking_id": bookingID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find transitions: %w", err)
	}
	defer cur.Close(ctx)

	result := []Entry{}
	for cur.Next(ctx) {
		var e Entry
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode transition: %w", err)
		}
		result = append(result, e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("transitions cursor: %w", err)
	}
	return result, nil
}
