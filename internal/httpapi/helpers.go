package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"sustainwear.org/internal/auth"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the error envelope every failure path uses.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"errMessage": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("Request body is required")
		}
		// Decoder errors (unknown fields, type mismatches, bad syntax)
		// read like Go internals; clients get one stable message.
		return errors.New("Invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("Invalid request body")
	}
	return nil
}

// handleAuthError maps service sentinels onto HTTP statuses and the
// user-facing messages the frontend expects.
func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, inputDetail(err))
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email is already taken")
	case errors.Is(err, auth.ErrMissingChallengeData):
		writeError(w, http.StatusBadRequest, "Missing verification data")
	case errors.Is(err, auth.ErrChallengeNotFound):
		writeError(w, http.StatusBadRequest, "Invalid or expired session")
	case errors.Is(err, auth.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, "Code expired")
	case errors.Is(err, auth.ErrIncorrectCode):
		writeError(w, http.StatusBadRequest, "Incorrect code")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, auth.ErrResendThrottled):
		writeError(w, http.StatusTooManyRequests, "Please wait 30 seconds before requesting another code.")
	case errors.Is(err, auth.ErrAccountDeactivated):
		writeError(w, http.StatusForbidden, "This account has been deactivated. Please contact support or an administrator.")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, forbiddenDetail(err))
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundDetail(err))
	case errors.Is(err, auth.ErrDeliveryFailed):
		writeError(w, http.StatusInternalServerError, "Failed to send email")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// inputDetail strips the sentinel prefix so only the human-readable part
// of a wrapped validation error reaches the client.
func inputDetail(err error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, auth.ErrInvalidInput.Error()+": "); ok {
		return capitalize(detail)
	}
	return capitalize(msg)
}

func forbiddenDetail(err error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, auth.ErrForbidden.Error()+": "); ok {
		return capitalize(detail)
	}
	return "Access denied."
}

func notFoundDetail(err error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, auth.ErrNotFound.Error()+": "); ok {
		return capitalize(detail)
	}
	return "Not found"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
