package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer = "sustainwear"

	// Session and reset tokens share the signing secret but carry
	// distinct token_type claims, so neither is accepted in place of
	// the other.
	tokenTypeSession = "session"
	tokenTypeReset   = "password_reset"

	SessionTTL    = 7 * 24 * time.Hour
	ResetTokenTTL = 15 * time.Minute
)

// SessionClaims are embedded into session tokens and attached to the
// request context after gating.
type SessionClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a numeric user id.
func (c *SessionClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type resetClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the service's JWTs using HS256.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. The secret must be non-empty.
func NewTokenIssuer(secret string, now func() time.Time) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: token secret is not configured")
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), now: now}, nil
}

// IssueSession signs a 7-day session token embedding id, email, role and
// display name.
func (t *TokenIssuer) IssueSession(u *User) (string, error) {
	now := t.now().UTC()
	claims := SessionClaims{
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.DisplayName(),
		TokenType: tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// VerifySession validates signature, expiry and token type.
func (t *TokenIssuer) VerifySession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := t.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeSession {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueReset signs a 15-minute password-reset token bound to the user id.
// The jti is returned alongside so callers can enforce single use.
func (t *TokenIssuer) IssueReset(userID int64) (token, jti string, err error) {
	now := t.now().UTC()
	jti = uuid.NewString()
	claims := resetClaims{
		TokenType: tokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
			ID:        jti,
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return token, jti, err
}

// VerifyReset validates a password-reset token and returns the bound user
// id, the jti and the expiry instant.
func (t *TokenIssuer) VerifyReset(token string) (userID int64, jti string, expiresAt time.Time, err error) {
	claims := &resetClaims{}
	if err := t.parse(token, claims); err != nil {
		return 0, "", time.Time{}, err
	}
	if claims.TokenType != tokenTypeReset {
		return 0, "", time.Time{}, ErrInvalidToken
	}
	id, perr := strconv.ParseInt(claims.Subject, 10, 64)
	if perr != nil {
		return 0, "", time.Time{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return 0, "", time.Time{}, ErrInvalidToken
	}
	return id, claims.ID, claims.ExpiresAt.Time, nil
}

func (t *TokenIssuer) parse(token string, claims jwt.Claims) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
