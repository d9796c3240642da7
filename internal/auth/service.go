package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
)

// Service orchestrates login, two-factor verification, session gating and
// the self-service account operations.
type Service struct {
	store      Store
	challenges ChallengeStore
	tokens     *TokenIssuer
	notifier   Notifier
	now        func() time.Time
	resetBase  string
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithResetLinkBase sets the frontend URL prefix embedded into
// password-reset emails.
func WithResetLinkBase(base string) ServiceOption {
	return func(s *Service) { s.resetBase = base }
}

// NewService constructs the auth core.
func NewService(store Store, challenges ChallengeStore, tokens *TokenIssuer, notifier Notifier, opts ...ServiceOption) (*Service, error) {
	if store == nil || challenges == nil || tokens == nil || notifier == nil {
		return nil, errors.New("auth: store, challenge store, token issuer and notifier are required")
	}
	svc := &Service{
		store:      store,
		challenges: challenges,
		tokens:     tokens,
		notifier:   notifier,
		now:        time.Now,
		resetBase:  "http://localhost:5173",
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Login checks credentials and, on success, opens a two-factor challenge
// and emails its code. No session is established here; the returned
// handle must be redeemed via VerifyTwoFactor.
//
// Unknown emails and wrong passwords both yield ErrInvalidCredentials so
// the endpoint cannot be used to enumerate accounts. If the code email
// cannot be delivered the challenge is rolled back and ErrDeliveryFailed
// returned, leaving login cleanly retryable.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	user, err := s.store.Users(ctx).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.Active {
		return "", ErrAccountDeactivated
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	code, err := NewTwoFactorCode()
	if err != nil {
		return "", err
	}
	handle := NewChallengeHandle()
	if err := s.challenges.Put(ctx, handle, Challenge{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: s.now().Add(ChallengeTTL),
	}); err != nil {
		return "", err
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code)
	if err := s.notifier.Send(ctx, user.Email, "Your 2FA Verification Code", body); err != nil {
		_ = s.challenges.Delete(ctx, handle)
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return handle, nil
}

// VerifyTwoFactor redeems a challenge handle against a submitted code and
// issues the session token. The handle is single-use: it is deleted the
// moment verification succeeds, and also when the code has expired. A
// code mismatch leaves the challenge intact for another attempt.
func (s *Service) VerifyTwoFactor(ctx context.Context, handle, code string) (string, PublicUser, error) {
	if handle == "" || code == "" {
		return "", PublicUser{}, ErrMissingChallengeData
	}
	ch, err := s.challenges.Get(ctx, handle)
	if err != nil {
		return "", PublicUser{}, err
	}
	if s.now().After(ch.ExpiresAt) {
		_ = s.challenges.Delete(ctx, handle)
		return "", PublicUser{}, ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) != 1 {
		return "", PublicUser{}, ErrIncorrectCode
	}

	user, err := s.store.Users(ctx).Find(ctx, ch.UserID)
	if err != nil {
		// The account vanished between login and verification.
		_ = s.challenges.Delete(ctx, handle)
		if errors.Is(err, ErrNotFound) {
			return "", PublicUser{}, errors.New("auth: challenge references missing user")
		}
		return "", PublicUser{}, err
	}
	token, err := s.tokens.IssueSession(user)
	if err != nil {
		return "", PublicUser{}, err
	}
	if err := s.challenges.Delete(ctx, handle); err != nil {
		return "", PublicUser{}, err
	}
	return token, user.Public(), nil
}

// ResendTwoFactor rotates the challenge code, extends its expiry and
// emails the new code. At most one resend per 30-second window per
// handle; the handle itself is never rotated.
func (s *Service) ResendTwoFactor(ctx context.Context, handle string) error {
	if handle == "" {
		return ErrChallengeNotFound
	}
	ch, err := s.challenges.Get(ctx, handle)
	if err != nil {
		return err
	}
	now := s.now()
	if !ch.LastResend.IsZero() && now.Sub(ch.LastResend) < ResendWindow {
		return ErrResendThrottled
	}

	code, err := NewTwoFactorCode()
	if err != nil {
		return err
	}
	ch.Code = code
	ch.ExpiresAt = now.Add(ChallengeTTL)
	ch.LastResend = now
	if err := s.challenges.Put(ctx, handle, ch); err != nil {
		return err
	}

	user, err := s.store.Users(ctx).Find(ctx, ch.UserID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Your new verification code is %s. It expires in 5 minutes.", code)
	if err := s.notifier.Send(ctx, user.Email, "Your new 2FA Verification Code", body); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// AuthenticateSession gates a request: the token must verify and the
// account must still exist and be active. Deactivation takes effect on
// the next request even though the token itself has not expired.
func (s *Service) AuthenticateSession(ctx context.Context, token string) (*SessionClaims, error) {
	claims, err := s.tokens.VerifySession(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.store.Users(ctx).Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAccountDeactivated
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDeactivated
	}
	return claims, nil
}

// Register creates a Donor account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	users := s.store.Users(ctx)
	if _, err := users.FindByEmail(ctx, in.Email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return 0, err
	}
	user := &User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         RoleDonor,
		Active:       true,
		SignedUpAt:   s.now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return user.ID, nil
}

// Profile returns the public projection for the authenticated user.
func (s *Service) Profile(ctx context.Context, userID int64) (PublicUser, error) {
	user, err := s.store.Users(ctx).Find(ctx, userID)
	if err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateName changes the caller's first and last name.
func (s *Service) UpdateName(ctx context.Context, userID int64, first, last string) error {
	if first == "" || last == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if err := validateName(first, "first name"); err != nil {
		return err
	}
	if err := validateName(last, "last name"); err != nil {
		return err
	}
	return s.store.Users(ctx).UpdateName(ctx, userID, first, last)
}

// DeleteAccount removes the caller's account after confirming their
// password.
func (s *Service) DeleteAccount(ctx context.Context, userID int64, password string) error {
	user, err := s.store.Users(ctx).Find(ctx, userID)
	if err != nil {
		return err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return fmt.Errorf("%w: incorrect password", ErrInvalidCredentials)
	}
	return s.store.Users(ctx).Delete(ctx, userID)
}

// RequestPasswordReset emails the caller a short-lived reset link.
func (s *Service) RequestPasswordReset(ctx context.Context, userID int64, email string) error {
	token, _, err := s.tokens.IssueReset(userID)
	if err != nil {
		return err
	}
	link := s.resetBase + "/reset-password/" + token
	body := fmt.Sprintf("Click the link below to change your password (expires in 15 minutes):\n\n%s", link)
	if err := s.notifier.Send(ctx, email, "Change Your Password", body); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// ResetPassword redeems a reset token and overwrites the stored hash.
// Tokens are single-use: the jti is remembered in the challenge store
// until the token's natural expiry, so a replay inside the window fails.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: token not found, please request another email", ErrInvalidInput)
	}
	if newPassword == "" || confirmPassword == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if newPassword != confirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: new password must be at least 8 characters long", ErrInvalidInput)
	}

	userID, jti, expiresAt, err := s.verifyUnusedResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.Users(ctx).UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	// Burn the jti for the remainder of the token's validity window.
	return s.challenges.Put(ctx, usedResetHandle(jti), Challenge{
		UserID:    userID,
		ExpiresAt: expiresAt,
	})
}

// VerifyResetToken reports whether a reset token is still redeemable and
// which user it is bound to.
func (s *Service) VerifyResetToken(ctx context.Context, token string) (int64, error) {
	userID, _, _, err := s.verifyUnusedResetToken(ctx, token)
	return userID, err
}

func (s *Service) verifyUnusedResetToken(ctx context.Context, token string) (int64, string, time.Time, error) {
	userID, jti, expiresAt, err := s.tokens.VerifyReset(token)
	if err != nil {
		return 0, "", time.Time{}, err
	}
	if _, err := s.challenges.Get(ctx, usedResetHandle(jti)); err == nil {
		return 0, "", time.Time{}, ErrInvalidToken
	} else if !errors.Is(err, ErrChallengeNotFound) {
		return 0, "", time.Time{}, err
	}
	return userID, jti, expiresAt, nil
}

func usedResetHandle(jti string) string {
	return "used-reset:" + jti
}

// RunSweeper reclaims abandoned challenges until ctx is cancelled. The
// memory backend leaks abandoned handles without it; the Redis backend
// expires keys on its own and sweeps are no-ops there.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.challenges.Sweep(ctx, s.now())
		}
	}
}
