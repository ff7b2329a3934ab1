package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisSlots stores each slot as a plain Redis string without expiry.
type RedisSlots struct {
	rdb *redis.Client
}

// NewRedisSlots wraps an already connected client.
func NewRedisSlots(rdb *redis.Client) *RedisSlots {
	return &RedisSlots{rdb: rdb}
}

// Get returns the stored bytes or ErrSlotNotFound when the key is absent.
func (r *RedisSlots) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return bs, nil
}

// Set overwrites the slot; last write wins.
func (r *RedisSlots) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}
