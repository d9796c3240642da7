package auth

import (
	"context"
	"errors"
	"fmt"
)

// AdminService carries the admin-only mutations over users and
// organisations. Audit recording is attached at the HTTP layer so a
// failed audit write never rolls back the mutation.
type AdminService struct {
	store Store
}

func NewAdminService(store Store) (*AdminService, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	return &AdminService{store: store}, nil
}

// ListUsers returns every account, including inactive ones.
func (s *AdminService) ListUsers(ctx context.Context) ([]*User, error) {
	return s.store.Users(ctx).List(ctx)
}

// UpdateUser applies a role/status mutation after evaluating the
// authorization policy against the acting admin. The pre-mutation target
// is returned for audit purposes.
func (s *AdminService) UpdateUser(ctx context.Context, actor *SessionClaims, targetID int64, upd UserUpdate) (*User, error) {
	target, err := s.store.Users(ctx).Find(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := CanModifyUser(actor, target, upd); err != nil {
		return nil, err
	}
	if err := s.store.Users(ctx).Update(ctx, targetID, upd); err != nil {
		return nil, err
	}
	return target, nil
}

// CreateOrganisation validates the payload, resolves the manager by
// email and promotes them from Donor to Staff if needed.
func (s *AdminService) CreateOrganisation(ctx context.Context, in OrganisationInput) (*Organisation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.ManagerEmail == "" {
		return nil, fmt.Errorf("%w: manager email is required", ErrInvalidInput)
	}
	users := s.store.Users(ctx)
	manager, err := users.FindByEmail(ctx, in.ManagerEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no user found with this email", ErrNotFound)
		}
		return nil, err
	}
	// A Donor picked as manager becomes Staff; existing Staff and Admin
	// accounts keep their role.
	if err := users.PromoteDonorToStaff(ctx, manager.ID); err != nil {
		return nil, err
	}

	org := &Organisation{
		Name:         in.Name,
		Description:  in.Description,
		StreetName:   in.StreetName,
		PostCode:     in.PostCode,
		City:         in.City,
		ContactEmail: in.ContactEmail,
		Active:       true,
		ManagerID:    manager.ID,
	}
	if err := s.store.Organisations(ctx).Create(ctx, org); err != nil {
		return nil, err
	}
	org.ManagerName = manager.DisplayName()
	return org, nil
}

// ListOrganisations returns all organisations with their manager names.
func (s *AdminService) ListOrganisations(ctx context.Context) ([]*Organisation, error) {
	return s.store.Organisations(ctx).List(ctx)
}

// SetOrganisationStatus toggles the active flag.
func (s *AdminService) SetOrganisationStatus(ctx context.Context, id int64, active bool) error {
	return s.store.Organisations(ctx).SetActive(ctx, id, active)
}

// DeleteOrganisation removes the organisation and its dependent rows.
func (s *AdminService) DeleteOrganisation(ctx context.Context, id int64) error {
	return s.store.Organisations(ctx).Delete(ctx, id)
}

// AuditLog returns the most recent audit entries, newest first.
func (s *AdminService) AuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	return s.store.Audit(ctx).List(ctx, limit)
}
