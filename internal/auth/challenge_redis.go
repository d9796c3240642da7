package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeKeyPrefix = "2fa"

// RedisChallengeStore backs the challenge store with Redis, allowing
// pending challenges to survive restarts and to be shared across
// instances. Records carry their own expiry; the Redis TTL covers the
// retention window and doubles as the sweep.
type RedisChallengeStore struct {
	client *redis.Client
	now    func() time.Time
}

var _ ChallengeStore = (*RedisChallengeStore)(nil)

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client, now: time.Now}
}

func (s *RedisChallengeStore) key(handle string) string {
	return challengeKeyPrefix + ":" + handle
}

func (s *RedisChallengeStore) Put(ctx context.Context, handle string, ch Challenge) error {
	encoded, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	ttl := ch.ExpiresAt.Add(challengeRetention).Sub(s.now())
	if ttl <= 0 {
		ttl = challengeRetention
	}
	if err := s.client.Set(ctx, s.key(handle), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("challenge store: %w", err)
	}
	return nil
}

func (s *RedisChallengeStore) Get(ctx context.Context, handle string) (Challenge, error) {
	data, err := s.client.Get(ctx, s.key(handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Challenge{}, ErrChallengeNotFound
		}
		return Challenge{}, fmt.Errorf("challenge store: %w", err)
	}
	var ch Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return Challenge{}, fmt.Errorf("challenge store: decode: %w", err)
	}
	return ch, nil
}

func (s *RedisChallengeStore) Delete(ctx context.Context, handle string) error {
	if err := s.client.Del(ctx, s.key(handle)).Err(); err != nil {
		return fmt.Errorf("challenge store: %w", err)
	}
	return nil
}

// Sweep is a no-op: Redis key TTLs reclaim abandoned challenges.
func (s *RedisChallengeStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
