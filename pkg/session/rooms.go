// Package session tracks which user a live media room belongs to. The
// token service writes a binding when it issues a room-join token; the
// agent service reads it to resolve the speaking user for a room.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gymmando:room:"

// RoomRegistry maps room names to user ids in Redis with TTL, so stale
// rooms expire on their own once the media session is over.
type RoomRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomRegistry builds a Redis-backed room registry.
func NewRoomRegistry(addr, password string, ttl time.Duration) *RoomRegistry {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &RoomRegistry{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// Bind records that room belongs to userID for the registry TTL.
func (r *RoomRegistry) Bind(ctx context.Context, room, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.client.Set(ctx, keyPrefix+strings.TrimSpace(room), userID, r.ttl).Err()
}

// Resolve returns the user bound to room, if any.
func (r *RoomRegistry) Resolve(ctx context.Context, room string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	val, err := r.client.Get(ctx, keyPrefix+strings.TrimSpace(room)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Release drops the binding for room.
func (r *RoomRegistry) Release(ctx context.Context, room string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.client.Del(ctx, keyPrefix+strings.TrimSpace(room)).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
