package auth

import "context"

// Store describes persistence operations required by the auth and admin
// subsystems.
type Store interface {
	Users(ctx context.Context) UserStore
	Organisations(ctx context.Context) OrganisationStore
	Audit(ctx context.Context) AuditStore
}

// UserStore manages user accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	// Update applies an admin role/status mutation.
	Update(ctx context.Context, id int64, upd UserUpdate) error
	UpdateName(ctx context.Context, id int64, first, last string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// PromoteDonorToStaff raises a Donor to Staff; other roles are left
	// untouched.
	PromoteDonorToStaff(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// OrganisationStore manages partner organisations.
type OrganisationStore interface {
	Create(ctx context.Context, org *Organisation) error
	List(ctx context.Context) ([]*Organisation, error)
	Find(ctx context.Context, id int64) (*Organisation, error)
	SetActive(ctx context.Context, id int64, active bool) error
	// Delete removes the organisation together with its dependent staff
	// assignment and inventory rows.
	Delete(ctx context.Context, id int64) error
}

// AuditStore appends and lists immutable audit entries.
type AuditStore interface {
	Append(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}
