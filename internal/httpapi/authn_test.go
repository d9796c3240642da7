package httpapi

import (
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	token, err := extractBearerToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("valid header: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("got %q", token)
	}

	for _, header := range []string{"", "Bearer ", "Basic abc", "abc.def.ghi"} {
		if _, err := extractBearerToken(header); err == nil {
			t.Fatalf("header %q should be rejected", header)
		}
	}
}

func TestIsPublicPath(t *testing.T) {
	public := []string{
		"/api/login",
		"/api/register",
		"/api/resetPassword",
		"/api/verifyResetToken/some-token",
		"/healthz",
		"/metrics",
	}
	for _, p := range public {
		if !isPublicPath(p) {
			t.Fatalf("%q should be public", p)
		}
	}

	private := []string{
		"/api/profile",
		"/api/updateName",
		"/api/deleteAccount",
		"/api/requestPasswordChange",
		"/api/admin/users",
		"/api/admin/logs",
	}
	for _, p := range private {
		if isPublicPath(p) {
			t.Fatalf("%q should require a session", p)
		}
	}
}
