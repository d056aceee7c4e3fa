package redis

import (
	"context"
	"errors"
	"time"

	redisclient "github.com/muhammadheryan/landing-api/cmd/redis"
	goredis "github.com/redis/go-redis/v9"
)

var errNoClient = errors.New("redis client not initialized")

// Repository defines methods for interacting with Redis key-values
type Repository interface {
	// Available reports whether a Redis connection was configured.
	Available() bool
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Count returns the current value of a counter, 0 when it does not exist.
	Count(ctx context.Context, key string) (int64, error)
	SetSession(ctx context.Context, sessionID string, username string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type redis struct {
	client func() *goredis.Client
}

// NewRepository returns a Redis Repository implementation
func NewRepository() Repository {
	return &redis{client: redisclient.Get}
}

func (r *redis) Available() bool {
	return r.client() != nil
}

// IncrWithTTL increments key and, in the same MULTI/EXEC, gives it ttl unless
// it already has one. A key can therefore never be left without an expiry.
// EXPIRE NX needs Redis 7.
func (r *redis) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	client := r.client()
	if client == nil {
		return 0, errNoClient
	}
	var incr *goredis.IntCmd
	_, err := client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *redis) Count(ctx context.Context, key string) (int64, error) {
	client := r.client()
	if client == nil {
		return 0, errNoClient
	}
	n, err := client.Get(ctx, key).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return n, err
}

// SetSession stores an admin session with TTL
func (r *redis) SetSession(ctx context.Context, sessionID string, username string, ttl time.Duration) error {
	client := r.client()
	if client == nil {
		return nil
	}
	key := "session:" + sessionID
	return client.Set(ctx, key, username, ttl).Err()
}

// GetSession retrieves the admin username of a session
func (r *redis) GetSession(ctx context.Context, sessionID string) (string, error) {
	client := r.client()
	if client == nil {
		return "", errNoClient
	}
	key := "session:" + sessionID
	return client.Get(ctx, key).Result()
}

// DeleteSession removes a session from Redis
func (r *redis) DeleteSession(ctx context.Context, sessionID string) error {
	client := r.client()
	if client == nil {
		return nil
	}
	key := "session:" + sessionID
	return client.Del(ctx, key).Err()
}
