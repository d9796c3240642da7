package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"sustainwear.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/api/login",
	"/api/verifyTwoFactors",
	"/api/resendTwoFactors",
	"/api/register",
	"/api/resetPassword",
	"/metrics",
	"/healthz",
	"/readyz",
	"/",
}

var publicPrefixes = []string{
	"/api/verifyResetToken/",
}

// withAuth gates everything outside the public surface behind a valid
// session token. The account's active flag is re-checked on every
// request, so deactivation cuts off outstanding tokens immediately.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := a.svc.AuthenticateSession(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				writeError(w, http.StatusForbidden, "Invalid or expired token")
			case errors.Is(err, auth.ErrAccountDeactivated):
				writeError(w, http.StatusForbidden, "Your account has been deactivated. Please contact support.")
			default:
				writeError(w, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := auth.ContextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin returns the caller's claims only when they hold the admin
// role. A missing or non-admin session has already been rejected or
// yields a 403 here.
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request) (*auth.SessionClaims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return nil, false
	}
	if claims.Role != auth.RoleAdmin {
		writeError(w, http.StatusForbidden, "Access denied. Admins only.")
		return nil, false
	}
	return claims, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(header, bearer) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
