package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRoomRegistryBindResolveRelease(t *testing.T) {
	redis := miniredis.RunT(t)
	reg := NewRoomRegistry(redis.Addr(), "", time.Minute)
	ctx := context.Background()

	if err := reg.Bind(ctx, "gym-room", "user-1"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	userID, ok, err := reg.Resolve(ctx, "gym-room")
	if err != nil || !ok {
		t.Fatalf("resolve: ok=%v err=%v", ok, err)
	}
	if userID != "user-1" {
		t.Fatalf("unexpected user: %q", userID)
	}

	if err := reg.Release(ctx, "gym-room"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, ok, _ := reg.Resolve(ctx, "gym-room"); ok {
		t.Fatalf("binding should be gone after release")
	}
}

func TestRoomRegistryExpires(t *testing.T) {
	redis := miniredis.RunT(t)
	reg := NewRoomRegistry(redis.Addr(), "", time.Second)
	ctx := context.Background()

	if err := reg.Bind(ctx, "gym-room", "user-1"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	redis.FastForward(2 * time.Second)
	if _, ok, _ := reg.Resolve(ctx, "gym-room"); ok {
		t.Fatalf("binding should expire with TTL")
	}
}

func TestRoomRegistryMissIsNotError(t *testing.T) {
	redis := miniredis.RunT(t)
	reg := NewRoomRegistry(redis.Addr(), "", time.Minute)

	_, ok, err := reg.Resolve(context.Background(), "unknown-room")
	if err != nil {
		t.Fatalf("resolve miss should not error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}
