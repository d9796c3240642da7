package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"sustainwear.org/internal/auth"
	"sustainwear.org/internal/obs"
)

func TestLogEvent(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithClaims(ctx, &auth.SessionClaims{
		Role:             auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	})

	if err := LogEvent(ctx, "user_updated", map[string]any{"target": 7}); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	line := buf.String()
	if line == "" {
		t.Fatal("expected log output")
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["type"] != "audit" {
		t.Fatalf("unexpected type: %v", entry["type"])
	}
	if entry["event"] != "user_updated" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", entry["request_id"])
	}
	if entry["user_id"] != float64(42) {
		t.Fatalf("unexpected user id: %v", entry["user_id"])
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["target"] != float64(7) {
		t.Fatalf("fields missing or incorrect: %v", entry["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}

type failingAuditStore struct{ appended int }

func (s *failingAuditStore) Append(context.Context, *auth.AuditEntry) error {
	s.appended++
	return context.DeadlineExceeded
}

func (s *failingAuditStore) List(context.Context, int) ([]auth.AuditEntry, error) {
	return nil, nil
}

func TestRecorderSwallowsStoreFailure(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	store := &failingAuditStore{}
	rec := NewRecorder(store)

	// must not panic or surface the error
	rec.Record(context.Background(), auth.AuditEntry{AdminID: 1, Action: "user_updated"})

	if store.appended != 1 {
		t.Fatalf("expected one append attempt, got %d", store.appended)
	}
	if !bytes.Contains(buf.Bytes(), []byte("audit_append_failed")) {
		t.Fatalf("expected failure to be logged, got %s", buf.String())
	}
}
