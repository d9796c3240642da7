package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"sustainwear.org/internal/audit"
	"sustainwear.org/internal/auth"
	"sustainwear.org/internal/obs"
)

// ReadyProbe reports whether the service can take traffic.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the auth and admin services.
type API struct {
	mux        *http.ServeMux
	svc        *auth.Service
	admin      *auth.AdminService
	recorder   *audit.Recorder
	readyProbe ReadyProbe
	version    string

	rateRPS   float64
	rateBurst int
}

// Option configures the API.
type Option func(*API)

// WithRateLimit overrides the default per-IP rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *API) {
		if rps > 0 {
			a.rateRPS = rps
		}
		if burst > 0 {
			a.rateBurst = burst
		}
	}
}

// WithVersion sets the version string reported by /healthz.
func WithVersion(v string) Option {
	return func(a *API) { a.version = v }
}

func New(svc *auth.Service, admin *auth.AdminService, recorder *audit.Recorder, rp ReadyProbe, opts ...Option) *API {
	a := &API{
		mux:        http.NewServeMux(),
		svc:        svc,
		admin:      admin,
		recorder:   recorder,
		readyProbe: rp,
		version:    "dev",
		rateRPS:    10,
		rateBurst:  20,
	}
	for _, opt := range opts {
		opt(a)
	}

	// health/ready/metrics
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	// public auth flow
	a.mux.HandleFunc("/api/login", a.handleLogin)
	a.mux.HandleFunc("/api/verifyTwoFactors", a.handleVerifyTwoFactors)
	a.mux.HandleFunc("/api/resendTwoFactors", a.handleResendTwoFactors)
	a.mux.HandleFunc("/api/register", a.handleRegister)
	a.mux.HandleFunc("/api/resetPassword", a.handleResetPassword)
	a.mux.HandleFunc("/api/verifyResetToken/", a.handleVerifyResetToken)

	// session-gated
	a.mux.HandleFunc("/api/profile", a.handleProfile)
	a.mux.HandleFunc("/api/logout", a.handleLogout)
	a.mux.HandleFunc("/api/updateName", a.handleUpdateName)
	a.mux.HandleFunc("/api/deleteAccount", a.handleDeleteAccount)
	a.mux.HandleFunc("/api/requestPasswordChange", a.handleRequestPasswordChange)

	// admin
	a.mux.HandleFunc("/api/admin/users", a.handleAdminUsers)
	a.mux.HandleFunc("/api/admin/organisations", a.handleAdminOrganisations)
	a.mux.HandleFunc("/api/admin/organisations/status", a.handleOrganisationStatus)
	a.mux.HandleFunc("/api/admin/organisations/", a.handleOrganisationByID)
	a.mux.HandleFunc("/api/admin/logs", a.handleAdminLogs)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.rateRPS)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "sustainwear-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
