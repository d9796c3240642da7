package obs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInstrumentPassesThrough(t *testing.T) {
	handler := Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("made"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/register", nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Body.String() != "made" {
		t.Fatalf("body %q", rr.Body.String())
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	Init()
	InitBuildInfo("test", "abc123")
	CountLogin("ok")
	CountTwoFactor("rejected")

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{"auth_login_attempts_total", "auth_two_factor_verifications_total", "build_info"} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %s in scrape output", metric)
		}
	}
}
