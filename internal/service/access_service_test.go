package service

import (
	"context"
	"errors"
	"testing"

	"github.com/instihub/instihub-backend/internal/model"
)

func accessFixture(t *testing.T) (*AccessService, *memStore, *AuthService) {
	t.Helper()
	auth := NewAuthService(testConfig())
	store := newMemStore()

	hash := mustHash(t, auth, "owner-pass")
	store.institutions = append(store.institutions, &model.Institution{
		ID:              1,
		Name:            "Green Valley College",
		EIIN:            "GV1001",
		SuperadminEmail: "owner@greenvalley.edu",
		PasswordHash:    hash,
		Slug:            "green-valley-college",
		LoginID:         "12345678",
		Active:          true,
	})
	// Approval seeds the master entry mirroring the superadmin.
	store.admins = append(store.admins, &model.DelegatedAdmin{
		ID:            2,
		InstitutionID: 1,
		Email:         "owner@greenvalley.edu",
		Name:          "owner",
		PasswordHash:  hash,
		Role:          model.DelegatedRoleMaster,
	})

	return NewAccessService(store, store, auth, testLogger()), store, auth
}

func TestAddAdmin(t *testing.T) {
	svc, store, auth := accessFixture(t)
	ctx := context.Background()

	admin, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu", model.AddDelegatedAdminRequest{
		Email: "Deputy@GreenValley.EDU",
		Name:  "Deputy Dean",
	})
	if err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}
	if admin.Email != "deputy@greenvalley.edu" {
		t.Errorf("email not normalized: %q", admin.Email)
	}
	if admin.Role != model.DelegatedRoleAdmin {
		t.Errorf("role = %s, want admin", admin.Role)
	}

	// Default password applies when none supplied, and is stored hashed.
	_, stored, err := store.GetAdminForAuth(ctx, "deputy@greenvalley.edu")
	if err != nil {
		t.Fatalf("GetAdminForAuth: %v", err)
	}
	if stored.PasswordHash == DefaultDelegatedPassword {
		t.Fatal("default password stored in plaintext")
	}
	if err := auth.CheckPassword(stored.PasswordHash, DefaultDelegatedPassword); err != nil {
		t.Errorf("default password does not verify: %v", err)
	}
}

func TestAddAdminExplicitPassword(t *testing.T) {
	svc, store, auth := accessFixture(t)
	ctx := context.Background()

	_, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu", model.AddDelegatedAdminRequest{
		Email:    "deputy@greenvalley.edu",
		Password: "chosen-pass",
	})
	if err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}

	_, stored, _ := store.GetAdminForAuth(ctx, "deputy@greenvalley.edu")
	if err := auth.CheckPassword(stored.PasswordHash, "chosen-pass"); err != nil {
		t.Errorf("chosen password does not verify: %v", err)
	}
	if err := auth.CheckPassword(stored.PasswordHash, DefaultDelegatedPassword); err == nil {
		t.Error("default password accepted despite explicit one")
	}
}

func TestAddAdminNameFallsBackToLocalPart(t *testing.T) {
	svc, _, _ := accessFixture(t)

	admin, err := svc.AddAdmin(context.Background(), "green-valley-college", "owner@greenvalley.edu",
		model.AddDelegatedAdminRequest{Email: "deputy@greenvalley.edu"})
	if err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}
	if admin.Name != "deputy" {
		t.Errorf("name = %q, want email local part fallback", admin.Name)
	}
}

func TestAddAdminRejectsSuperadminSelf(t *testing.T) {
	svc, _, _ := accessFixture(t)

	_, err := svc.AddAdmin(context.Background(), "green-valley-college", "owner@greenvalley.edu",
		model.AddDelegatedAdminRequest{Email: "Owner@GreenValley.edu"})
	if !errors.Is(err, ErrCannotAddSelf) {
		t.Errorf("err = %v, want ErrCannotAddSelf", err)
	}
}

func TestAddAdminRejectsDuplicate(t *testing.T) {
	svc, _, _ := accessFixture(t)
	ctx := context.Background()

	req := model.AddDelegatedAdminRequest{Email: "deputy@greenvalley.edu"}
	if _, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu", req); err != nil {
		t.Fatalf("first AddAdmin: %v", err)
	}
	if _, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu", req); !errors.Is(err, ErrDuplicateAdmin) {
		t.Errorf("second AddAdmin err = %v, want ErrDuplicateAdmin", err)
	}
}

func TestAddAdminMirrorsPlatformAccountOnce(t *testing.T) {
	svc, store, _ := accessFixture(t)
	ctx := context.Background()

	if _, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu",
		model.AddDelegatedAdminRequest{Email: "deputy@greenvalley.edu"}); err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}
	if len(store.platformAdmins) != 1 {
		t.Fatalf("platform admins = %d, want 1", len(store.platformAdmins))
	}

	// Remove and re-add: the mirror already exists and must not duplicate.
	if err := svc.RemoveAdmin(ctx, "green-valley-college", "owner@greenvalley.edu", "deputy@greenvalley.edu"); err != nil {
		t.Fatalf("RemoveAdmin: %v", err)
	}
	if _, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu",
		model.AddDelegatedAdminRequest{Email: "deputy@greenvalley.edu"}); err != nil {
		t.Fatalf("re-AddAdmin: %v", err)
	}
	if len(store.platformAdmins) != 1 {
		t.Errorf("platform admins = %d after re-add, want 1", len(store.platformAdmins))
	}
}

func TestAccessForbiddenForNonSuperadmin(t *testing.T) {
	svc, _, _ := accessFixture(t)
	ctx := context.Background()

	// Seed a delegated admin, then have them try to manage the registry.
	if _, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu",
		model.AddDelegatedAdminRequest{Email: "deputy@greenvalley.edu"}); err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}

	if _, _, err := svc.ListAdmins(ctx, "green-valley-college", "deputy@greenvalley.edu"); !errors.Is(err, ErrForbidden) {
		t.Errorf("ListAdmins err = %v, want ErrForbidden", err)
	}
	if _, err := svc.AddAdmin(ctx, "green-valley-college", "deputy@greenvalley.edu",
		model.AddDelegatedAdminRequest{Email: "third@greenvalley.edu"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("AddAdmin err = %v, want ErrForbidden", err)
	}
	if err := svc.RemoveAdmin(ctx, "green-valley-college", "deputy@greenvalley.edu", "deputy@greenvalley.edu"); !errors.Is(err, ErrForbidden) {
		t.Errorf("RemoveAdmin err = %v, want ErrForbidden", err)
	}
}

func TestListAdminsOmitsHashes(t *testing.T) {
	svc, _, _ := accessFixture(t)
	ctx := context.Background()

	if _, err := svc.AddAdmin(ctx, "green-valley-college", "owner@greenvalley.edu",
		model.AddDelegatedAdminRequest{Email: "deputy@greenvalley.edu"}); err != nil {
		t.Fatalf("AddAdmin: %v", err)
	}

	inst, admins, err := svc.ListAdmins(ctx, "green-valley-college", "Owner@GreenValley.edu")
	if err != nil {
		t.Fatalf("ListAdmins: %v", err)
	}
	if inst.SuperadminEmail != "owner@greenvalley.edu" {
		t.Errorf("superadmin = %q", inst.SuperadminEmail)
	}
	if len(admins) != 2 {
		t.Fatalf("admins = %d, want master + deputy", len(admins))
	}
	roles := map[string]model.DelegatedAdminRole{}
	for _, a := range admins {
		if a.PasswordHash != "" {
			t.Error("public listing leaked a password hash")
		}
		roles[a.Email] = a.Role
	}
	if roles["owner@greenvalley.edu"] != model.DelegatedRoleMaster {
		t.Errorf("owner role = %s, want master", roles["owner@greenvalley.edu"])
	}
	if roles["deputy@greenvalley.edu"] != model.DelegatedRoleAdmin {
		t.Errorf("deputy role = %s, want admin", roles["deputy@greenvalley.edu"])
	}
}

func TestRemoveMasterForbidden(t *testing.T) {
	svc, store, _ := accessFixture(t)

	err := svc.RemoveAdmin(context.Background(), "green-valley-college", "owner@greenvalley.edu", "Owner@GreenValley.edu")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if len(store.admins) != 1 {
		t.Errorf("admins = %d, master entry must survive", len(store.admins))
	}
}

func TestRemoveAdminNotFound(t *testing.T) {
	svc, _, _ := accessFixture(t)

	err := svc.RemoveAdmin(context.Background(), "green-valley-college", "owner@greenvalley.edu", "ghost@greenvalley.edu")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAccessUnknownSlug(t *testing.T) {
	svc, _, _ := accessFixture(t)

	_, _, err := svc.ListAdmins(context.Background(), "no-such-school", "owner@greenvalley.edu")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
