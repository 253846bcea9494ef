package redis

import (
	"context"
	"testing"
	"time"
)

func TestAttemptTracker_IncrementAndReset(t *testing.T) {
	client, mr := newTestRedisClient(t)

	tracker := NewAttemptTracker(client, time.Hour)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := tracker.Increment(ctx, "retry:attempts:tx-1")
		if err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	if ttl := mr.TTL("retry:attempts:tx-1"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected ttl to be set, got %s", ttl)
	}

	if err := tracker.Reset(ctx, "retry:attempts:tx-1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if mr.Exists("retry:attempts:tx-1") {
		t.Fatal("expected counter to be deleted")
	}
}

func TestAttemptTracker_CounterExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)

	tracker := NewAttemptTracker(client, time.Minute)
	ctx := context.Background()

	if _, err := tracker.Increment(ctx, "k"); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := tracker.Increment(ctx, "k")
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected counter to restart after expiry, got %d", got)
	}
}

func TestAttemptTracker_Unavailable(t *testing.T) {
	client, mr := newTestRedisClient(t)

	mr.Close()

	if _, err := NewAttemptTracker(client, time.Minute).Increment(context.Background(), "k"); err == nil {
		t.Fatal("expected error when redis is down")
	}
}
