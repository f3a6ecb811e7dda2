package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/adventure-service/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcker struct {
	mu       sync.Mutex
	acked    int
	nacked   int
	requeued bool
}

func (f *fakeAcker) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked++
	return nil
}
func (f *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked++
	f.requeued = requeue
	return nil
}
func (f *fakeAcker) Reject(tag uint64, requeue bool) error { return nil }

type fakeRepo struct {
	upserted []*models.Adventure
	err      error
	// booked simulates seats already held per adventure id.
	booked map[uint]int
}

func (r *fakeRepo) Upsert(ctx context.Context, a *models.Adventure) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if a.MaxParticipants < r.booked[a.ID] {
		return false, nil
	}
	r.upserted = append(r.upserted, a)
	return true, nil
}

type fakeCache struct{ deleted []string }

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}

func newConsumer(repo AdventureUpserter, cache AvailabilityInvalidator) *CatalogConsumer {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewCatalogConsumer(repo, cache, func(id uint) string { return fmt.Sprintf("adventure:availability:%d", id) }, l)
}

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, RoutingKey: "adventure.updated", Body: []byte(body)}
}

func TestHandleMessage_UpsertsAndAcks(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	ack := &fakeAcker{}

	newConsumer(repo, cache).handleMessage(context.Background(),
		delivery(ack, `{"id":3,"title":"Kilimanjaro Trek","maxParticipants":12,"isActive":true}`))

	require.Len(t, repo.upserted, 1)
	assert.Equal(t, uint(3), repo.upserted[0].ID)
	assert.Equal(t, 12, repo.upserted[0].MaxParticipants)
	assert.Equal(t, 0, repo.upserted[0].BookedSeats)
	assert.Equal(t, []string{"adventure:availability:3"}, cache.deleted)
	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 0, ack.nacked)
}

func TestHandleMessage_BadJSONIsDropped(t *testing.T) {
	repo := &fakeRepo{}
	ack := &fakeAcker{}

	newConsumer(repo, nil).handleMessage(context.Background(), delivery(ack, `{not json`))

	assert.Empty(t, repo.upserted)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandleMessage_InvalidPayloadIsDropped(t *testing.T) {
	repo := &fakeRepo{}
	ack := &fakeAcker{}

	newConsumer(repo, nil).handleMessage(context.Background(), delivery(ack, `{"id":0,"title":"x"}`))

	assert.Empty(t, repo.upserted)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandleMessage_RepositoryErrorRequeues(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	ack := &fakeAcker{}

	newConsumer(repo, nil).handleMessage(context.Background(),
		delivery(ack, `{"id":1,"title":"Mara","maxParticipants":30}`))

	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeued)
	assert.Equal(t, 0, ack.acked)
}

func TestHandleMessage_CapacityBelowBookedIsDropped(t *testing.T) {
	repo := &fakeRepo{booked: map[uint]int{4: 5}}
	cache := &fakeCache{}
	ack := &fakeAcker{}

	newConsumer(repo, cache).handleMessage(context.Background(),
		delivery(ack, `{"id":4,"title":"Amboseli","maxParticipants":2,"isActive":true}`))

	assert.Empty(t, repo.upserted)
	assert.Empty(t, cache.deleted)
	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestStart_StopsWhenChannelCloses(t *testing.T) {
	repo := &fakeRepo{}
	ack := &fakeAcker{}
	msgs := make(chan amqp.Delivery, 1)
	msgs <- delivery(ack, `{"id":2,"title":"Naivasha","maxParticipants":8}`)
	close(msgs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	newConsumer(repo, nil).Start(ctx, msgs)

	assert.Eventually(t, func() bool {
		ack.mu.Lock()
		defer ack.mu.Unlock()
		return ack.acked == 1
	}, time.Second, 10*time.Millisecond)
}
