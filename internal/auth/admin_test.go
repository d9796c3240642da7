package auth

import (
	"context"
	"errors"
	"testing"
)

func newAdminEnv(t *testing.T) (*AdminService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc, err := NewAdminService(store)
	if err != nil {
		t.Fatalf("new admin service: %v", err)
	}
	return svc, store
}

func TestUpdateUserAppliesPolicy(t *testing.T) {
	svc, store := newAdminEnv(t)
	donor := store.addUser(&User{Email: "donor@example.com", Role: RoleDonor, Active: true})
	admin := store.addUser(&User{Email: "admin@example.com", Role: RoleAdmin, Active: true})

	if _, err := svc.UpdateUser(context.Background(), adminClaims(), donor.ID, UserUpdate{Role: RoleAdmin, Active: true}); err != nil {
		t.Fatalf("promote donor: %v", err)
	}
	updated, _ := store.Users(context.Background()).Find(context.Background(), donor.ID)
	if updated.Role != RoleAdmin {
		t.Fatalf("role not applied: %+v", updated)
	}

	if _, err := svc.UpdateUser(context.Background(), adminClaims(), admin.ID, UserUpdate{Role: RoleDonor, Active: true}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateUser(context.Background(), adminClaims(), 999, UserUpdate{Role: RoleDonor, Active: true}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func validOrgInput(managerEmail string) OrganisationInput {
	return OrganisationInput{
		Name:         "Green Threads",
		Description:  "Community clothing redistribution hub",
		StreetName:   "12 Mill Lane",
		PostCode:     "AB1 2CD",
		City:         "Leeds",
		ContactEmail: "hello@greenthreads.org",
		ManagerEmail: managerEmail,
	}
}

func TestCreateOrganisationPromotesDonorManager(t *testing.T) {
	svc, store := newAdminEnv(t)
	manager := store.addUser(&User{
		FirstName: "Sam", LastName: "Field",
		Email: "manager@example.com", Role: RoleDonor, Active: true,
	})

	org, err := svc.CreateOrganisation(context.Background(), validOrgInput(manager.Email))
	if err != nil {
		t.Fatalf("create organisation: %v", err)
	}
	if org.ID == 0 || !org.Active {
		t.Fatalf("unexpected organisation: %+v", org)
	}
	if org.ManagerID != manager.ID || org.ManagerName != "Sam Field" {
		t.Fatalf("manager not bound: %+v", org)
	}

	promoted, _ := store.Users(context.Background()).Find(context.Background(), manager.ID)
	if promoted.Role != RoleStaff {
		t.Fatalf("manager should be promoted to staff, got %q", promoted.Role)
	}
}

func TestCreateOrganisationKeepsAdminManagerRole(t *testing.T) {
	svc, store := newAdminEnv(t)
	manager := store.addUser(&User{Email: "admin@example.com", Role: RoleAdmin, Active: true})

	if _, err := svc.CreateOrganisation(context.Background(), validOrgInput(manager.Email)); err != nil {
		t.Fatalf("create organisation: %v", err)
	}
	u, _ := store.Users(context.Background()).Find(context.Background(), manager.ID)
	if u.Role != RoleAdmin {
		t.Fatalf("admin manager should keep role, got %q", u.Role)
	}
}

func TestCreateOrganisationUnknownManager(t *testing.T) {
	svc, _ := newAdminEnv(t)
	if _, err := svc.CreateOrganisation(context.Background(), validOrgInput("nobody@example.com")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOrganisationValidatesInput(t *testing.T) {
	svc, store := newAdminEnv(t)
	store.addUser(&User{Email: "manager@example.com", Role: RoleDonor, Active: true})

	in := validOrgInput("manager@example.com")
	in.Name = "ab"
	if _, err := svc.CreateOrganisation(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short name: got %v", err)
	}

	in = validOrgInput("manager@example.com")
	in.PostCode = "!!"
	if _, err := svc.CreateOrganisation(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad post code: got %v", err)
	}
}

func TestOrganisationStatusAndDelete(t *testing.T) {
	svc, store := newAdminEnv(t)
	store.addUser(&User{Email: "manager@example.com", Role: RoleDonor, Active: true})
	org, err := svc.CreateOrganisation(context.Background(), validOrgInput("manager@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.SetOrganisationStatus(context.Background(), org.ID, false); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ := store.Organisations(context.Background()).Find(context.Background(), org.ID)
	if got.Active {
		t.Fatal("organisation should be inactive")
	}

	if err := svc.DeleteOrganisation(context.Background(), org.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.SetOrganisationStatus(context.Background(), org.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
