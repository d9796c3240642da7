package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"sustainwear.org/internal/auth"
)

// adminUserView includes the moderation fields hidden from the public
// profile projection.
type adminUserView struct {
	ID         int64     `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Active     bool      `json:"is_active"`
	SignedUpAt time.Time `json:"sign_up_date"`
}

func (a *API) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.listUsers(w, r)
	case http.MethodPut:
		a.updateUser(w, r, claims)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.admin.ListUsers(r.Context())
	if err != nil {
		handleAuthError(w, err)
		return
	}
	views := make([]adminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, adminUserView{
			ID:         u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Email:      u.Email,
			Role:       u.Role,
			Active:     u.Active,
			SignedUpAt: u.SignedUpAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

type updateUserRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Active *bool  `json:"is_active"`
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request, claims *auth.SessionClaims) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == 0 || req.Role == "" || req.Active == nil {
		writeError(w, http.StatusBadRequest, "User id, role and status are required")
		return
	}

	if _, err := a.admin.UpdateUser(r.Context(), claims, req.UserID, auth.UserUpdate{
		Role:   req.Role,
		Active: *req.Active,
	}); err != nil {
		handleAuthError(w, err)
		return
	}

	a.recordAudit(r, claims, "user_updated", req.UserID, 0)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
	})
}

func (a *API) handleAdminOrganisations(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.listOrganisations(w, r)
	case http.MethodPost:
		a.createOrganisation(w, r, claims)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listOrganisations(w http.ResponseWriter, r *http.Request) {
	orgs, err := a.admin.ListOrganisations(r.Context())
	if err != nil {
		handleAuthError(w, err)
		return
	}
	if orgs == nil {
		orgs = []*auth.Organisation{}
	}
	writeJSON(w, http.StatusOK, orgs)
}

type createOrganisationRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	StreetName   string `json:"street_name"`
	PostCode     string `json:"post_code"`
	City         string `json:"city"`
	ContactEmail string `json:"contact_email"`
	ManagerEmail string `json:"manager_email"`
}

func (a *API) createOrganisation(w http.ResponseWriter, r *http.Request, claims *auth.SessionClaims) {
	var req createOrganisationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	org, err := a.admin.CreateOrganisation(r.Context(), auth.OrganisationInput{
		Name:         req.Name,
		Description:  req.Description,
		StreetName:   req.StreetName,
		PostCode:     req.PostCode,
		City:         req.City,
		ContactEmail: req.ContactEmail,
		ManagerEmail: req.ManagerEmail,
	})
	if err != nil {
		handleAuthError(w, err)
		return
	}

	a.recordAudit(r, claims, "organisation_created", org.ManagerID, org.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Organisation created successfully",
		"org_id":  org.ID,
	})
}

type organisationStatusRequest struct {
	OrgID  int64 `json:"org_id"`
	Active *bool `json:"is_active"`
}

func (a *API) handleOrganisationStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w, http.MethodPut)
		return
	}
	var req organisationStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.OrgID == 0 || req.Active == nil {
		writeError(w, http.StatusBadRequest, "Organisation id and status are required")
		return
	}

	if err := a.admin.SetOrganisationStatus(r.Context(), req.OrgID, *req.Active); err != nil {
		handleAuthError(w, err)
		return
	}

	action := "organisation_deactivated"
	if *req.Active {
		action = "organisation_activated"
	}
	a.recordAudit(r, claims, action, 0, req.OrgID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Organisation updated successfully",
	})
}

func (a *API) handleOrganisationByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireAdmin(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/admin/organisations/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid organisation id")
		return
	}

	if err := a.admin.DeleteOrganisation(r.Context(), id); err != nil {
		handleAuthError(w, err)
		return
	}

	a.recordAudit(r, claims, "organisation_deleted", 0, id)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Organisation deleted successfully",
	})
}

func (a *API) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireAdmin(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := a.admin.AuditLog(r.Context(), limit)
	if err != nil {
		handleAuthError(w, err)
		return
	}
	if entries == nil {
		entries = []auth.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *API) recordAudit(r *http.Request, claims *auth.SessionClaims, action string, targetUser, targetOrg int64) {
	adminID, err := claims.UserID()
	if err != nil {
		return
	}
	a.recorder.Record(r.Context(), auth.AuditEntry{
		AdminID:    adminID,
		Action:     action,
		TargetUser: targetUser,
		TargetOrg:  targetOrg,
	})
}
