package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// ChallengeTTL is how long a two-factor code stays valid.
	ChallengeTTL = 5 * time.Minute
	// ResendWindow is the minimum gap between code resends per handle.
	ResendWindow = 30 * time.Second

	// Expired records are retained briefly so verification can report
	// "code expired" rather than a vanished session, then reclaimed.
	challengeRetention = 10 * time.Minute
)

// ChallengeStore is the keyed store for pending two-factor challenges.
// Implementations serialize access internally; records are returned even
// after their expiry instant until swept, so callers can distinguish an
// expired code from an unknown handle.
type ChallengeStore interface {
	Put(ctx context.Context, handle string, ch Challenge) error
	// Get returns ErrChallengeNotFound for unknown or reclaimed handles.
	Get(ctx context.Context, handle string) (Challenge, error)
	Delete(ctx context.Context, handle string) error
	// Sweep reclaims records whose retention has lapsed and reports how
	// many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// NewChallengeHandle returns an unguessable opaque handle.
func NewChallengeHandle() string {
	return uuid.NewString()
}

// NewTwoFactorCode returns a cryptographically random 6-digit code.
func NewTwoFactorCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// MemoryChallengeStore keeps challenges in process memory. Pending
// challenges are lost on restart; this backend is single-instance only.
type MemoryChallengeStore struct {
	mu      sync.Mutex
	records map[string]Challenge
}

var _ ChallengeStore = (*MemoryChallengeStore)(nil)

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{records: make(map[string]Challenge)}
}

func (s *MemoryChallengeStore) Put(_ context.Context, handle string, ch Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[handle] = ch
	return nil
}

func (s *MemoryChallengeStore) Get(_ context.Context, handle string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.records[handle]
	if !ok {
		return Challenge{}, ErrChallengeNotFound
	}
	return ch, nil
}

func (s *MemoryChallengeStore) Delete(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, handle)
	return nil
}

func (s *MemoryChallengeStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for handle, ch := range s.records {
		if now.After(ch.ExpiresAt.Add(challengeRetention)) {
			delete(s.records, handle)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored records, swept or not.
func (s *MemoryChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
