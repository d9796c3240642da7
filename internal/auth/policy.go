package auth

import "fmt"

// CanModifyUser decides whether an admin may apply upd to target. Kept as
// a single policy function so new rules compose here instead of inline in
// handlers.
func CanModifyUser(actor *SessionClaims, target *User, upd UserUpdate) error {
	if actor == nil || actor.Role != RoleAdmin {
		return fmt.Errorf("%w: admins only", ErrForbidden)
	}
	if upd.Role != RoleDonor && upd.Role != RoleAdmin {
		return fmt.Errorf("%w: invalid role, only Donor or Admin are allowed", ErrInvalidInput)
	}
	// Admin accounts are immune to demotion and deactivation by other
	// admins; removing an admin is a deliberate out-of-band operation.
	if target.Role == RoleAdmin && (upd.Role != RoleAdmin || !upd.Active) {
		return fmt.Errorf("%w: cannot demote or deactivate an admin account", ErrForbidden)
	}
	return nil
}
