package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisChallengeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisChallengeStore(client), mr
}

func TestRedisChallengeStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	ch := Challenge{
		UserID:    42,
		Code:      "654321",
		ExpiresAt: time.Now().Add(ChallengeTTL).UTC(),
	}
	if err := store.Put(ctx, "handle-1", ch); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "handle-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != 42 || got.Code != "654321" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.ExpiresAt.Equal(ch.ExpiresAt) {
		t.Fatalf("expiry changed: got %v want %v", got.ExpiresAt, ch.ExpiresAt)
	}

	if err := store.Delete(ctx, "handle-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "handle-1"); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestRedisChallengeStoreUnknownHandle(t *testing.T) {
	store, _ := newRedisStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestRedisChallengeStoreKeyTTLReclaims(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	ch := Challenge{UserID: 1, Code: "123456", ExpiresAt: time.Now().Add(ChallengeTTL)}
	if err := store.Put(ctx, "handle-ttl", ch); err != nil {
		t.Fatalf("put: %v", err)
	}

	// the key expires after the retention window past the code expiry
	mr.FastForward(ChallengeTTL + challengeRetention + time.Second)
	if _, err := store.Get(ctx, "handle-ttl"); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound after TTL, got %v", err)
	}
}
