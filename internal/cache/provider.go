package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// Provider is the minimal cache surface the service needs. The only
// non-obvious operation is SetNX, which backs the alert cooldown: the first
// writer of a fingerprint wins and later writers are told the key existed.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	Close() error
}

// NoopProvider satisfies Provider without storing anything. It is used when
// caching is disabled: every Get misses and every SetNX succeeds, so alerts
// are never suppressed.
type NoopProvider struct{}

// NewNoopProvider returns a cache that never stores anything.
func NewNoopProvider() *NoopProvider { return &NoopProvider{} }

func (*NoopProvider) Get(context.Context, string) (string, error) {
	return "", ErrCacheMiss
}

func (*NoopProvider) Set(context.Context, string, string, time.Duration) error { return nil }

func (*NoopProvider) SetNX(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}

func (*NoopProvider) Del(context.Context, string) error { return nil }

func (*NoopProvider) Close() error { return nil }
