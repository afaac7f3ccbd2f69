package store

import (
	"context"
	"time"
)

// Store is the field-level hash and string API the bot persists through.
// A ttl of zero means the key never expires.
type Store interface {
	HGet(ctx context.Context, key, field string) (string, bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, values map[string]string) error
	// HSetTTL writes the fields and resets the expiry of the whole key in one step
	HSetTTL(ctx context.Context, key string, values map[string]string, ttl time.Duration) error
	HDel(ctx context.Context, key string, fields ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}
