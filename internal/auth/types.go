package auth

import "time"

// Roles a user account can hold. Exactly one at a time.
const (
	RoleDonor = "Donor"
	RoleStaff = "Staff"
	RoleAdmin = "Admin"
)

// User is a registered account. PasswordHash never crosses the HTTP
// boundary; handlers expose PublicUser projections instead.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	SignedUpAt   time.Time
}

// Public returns the projection of the user that is safe to serialize.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// DisplayName is the name claim embedded into session tokens.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// PublicUser is the outward-facing user shape.
type PublicUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// UserUpdate carries an admin mutation of role and active status.
type UserUpdate struct {
	Role   string
	Active bool
}

// Organisation is a partner body that receives and distributes donations.
type Organisation struct {
	ID           int64     `json:"org_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StreetName   string    `json:"street_name"`
	PostCode     string    `json:"post_code"`
	City         string    `json:"city"`
	ContactEmail string    `json:"contact_email"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	ManagerID    int64     `json:"manager_id,omitempty"`
	ManagerName  string    `json:"manager_name,omitempty"`
}

// Challenge is a pending two-factor attempt keyed by an opaque handle.
// At most one live record exists per handle; a handle is consumed by the
// first successful verification.
type Challenge struct {
	UserID     int64     `json:"user_id"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastResend time.Time `json:"last_resend,omitzero"`
}

// AuditEntry records an administrative mutation. Append-only.
type AuditEntry struct {
	ID         string    `json:"id"`
	AdminID    int64     `json:"admin_id"`
	Action     string    `json:"action"`
	TargetUser int64     `json:"target_user_id,omitempty"`
	TargetOrg  int64     `json:"target_org_id,omitempty"`
	OccurredAt time.Time `json:"timestamp"`
}
