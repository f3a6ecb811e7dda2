package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const UpdatesChannel = "booking:updates"

// generationTTL outlives any fill that could still be in flight.
const generationTTL = 24 * time.Hour

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the redis instance at url and checks it answers.
func New(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func AvailabilityKey(adventureID uint) string {
	return fmt.Sprintf("adventure:availability:%d", adventureID)
}

// GetJSON reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func generationKey(key string) string {
	return key + ":gen"
}

// Generation returns how many times key has been invalidated. A key never
// invalidated, or whose counter expired, is at generation zero.
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// SetJSONAt stores v under key only while key is still at generation gen.
// A value read before an invalidation is never written after it.
func (c *Cache) SetJSONAt(ctx context.Context, key string, v any, gen int64) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}

	genKey := generationKey(key)
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		}); err != nil {
			return err
		}
		stored = true
		return nil
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// Delete drops keys and advances their generations, so fills that read the
// old state are discarded.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
			pipe.Expire(ctx, generationKey(key), generationTTL)
		}
		return nil
	})
	return err
}

func (c *Cache) Publish(ctx context.Context, channel string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, channel, data).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
