package service

import (
	"context"
	"errors"
	"testing"

	"github.com/instihub/instihub-backend/internal/model"
)

// resolverFixture seeds one account in each identity universe.
func resolverFixture(t *testing.T) (*IdentityResolver, *memStore, *AuthService) {
	t.Helper()
	auth := NewAuthService(testConfig())
	store := newMemStore()

	store.institutions = append(store.institutions, &model.Institution{
		ID:              1,
		Name:            "Green Valley College",
		EIIN:            "GV1001",
		SuperadminEmail: "owner@greenvalley.edu",
		PasswordHash:    mustHash(t, auth, "owner-pass"),
		Slug:            "green-valley-college",
		LoginID:         "12345678",
		Active:          true,
	})
	store.admins = append(store.admins, &model.DelegatedAdmin{
		ID:            2,
		InstitutionID: 1,
		Email:         "deputy@greenvalley.edu",
		Name:          "Deputy",
		PasswordHash:  mustHash(t, auth, "deputy-pass"),
		Role:          model.DelegatedRoleAdmin,
	})

	instructors := &fakeInstructorStore{byEmail: map[string]*model.Instructor{
		"teach@greenvalley.edu": {
			ID: 3, Name: "Teacher", Email: "teach@greenvalley.edu",
			PasswordHash: mustHash(t, auth, "teach-pass"),
		},
	}}
	students := &fakeStudentStore{byEmail: map[string]*model.Student{
		"pupil@greenvalley.edu": {
			ID: 4, Name: "Pupil", Email: "pupil@greenvalley.edu",
			PasswordHash: mustHash(t, auth, "pupil-pass"),
		},
	}}

	return NewIdentityResolver(auth, store, instructors, students), store, auth
}

func TestResolveSuperadmin(t *testing.T) {
	resolver, _, _ := resolverFixture(t)

	id, err := resolver.Resolve(context.Background(), "owner@greenvalley.edu", "owner-pass")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Role != RoleInstitution {
		t.Errorf("role = %s, want institution", id.Role)
	}
	if !id.IsSuperadmin {
		t.Error("superadmin login must set IsSuperadmin")
	}
	if id.AdminEmail != "" {
		t.Errorf("AdminEmail = %q, want empty for superadmin login", id.AdminEmail)
	}
	if id.Slug != "green-valley-college" {
		t.Errorf("slug = %q", id.Slug)
	}
}

func TestResolveDelegatedAdmin(t *testing.T) {
	resolver, _, _ := resolverFixture(t)

	id, err := resolver.Resolve(context.Background(), "deputy@greenvalley.edu", "deputy-pass")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Role != RoleInstitution {
		t.Errorf("role = %s, want institution", id.Role)
	}
	if id.IsSuperadmin {
		t.Error("delegated admin must not be flagged superadmin")
	}
	if id.AdminEmail != "deputy@greenvalley.edu" {
		t.Errorf("AdminEmail = %q", id.AdminEmail)
	}
	if id.InstitutionID != 1 {
		t.Errorf("InstitutionID = %d, want 1", id.InstitutionID)
	}
}

func TestResolveInstructorAndStudent(t *testing.T) {
	resolver, _, _ := resolverFixture(t)

	id, err := resolver.Resolve(context.Background(), "teach@greenvalley.edu", "teach-pass")
	if err != nil {
		t.Fatalf("Resolve instructor: %v", err)
	}
	if id.Role != RoleInstructor || id.ID != 3 {
		t.Errorf("instructor identity = %+v", id)
	}

	id, err = resolver.Resolve(context.Background(), "pupil@greenvalley.edu", "pupil-pass")
	if err != nil {
		t.Fatalf("Resolve student: %v", err)
	}
	if id.Role != RoleStudent || id.ID != 4 {
		t.Errorf("student identity = %+v", id)
	}
}

func TestResolveNormalizesEmail(t *testing.T) {
	resolver, _, _ := resolverFixture(t)

	if _, err := resolver.Resolve(context.Background(), "  Owner@GreenValley.EDU ", "owner-pass"); err != nil {
		t.Errorf("Resolve with unnormalized email: %v", err)
	}
}

func TestResolveUnknownEmail(t *testing.T) {
	resolver, _, _ := resolverFixture(t)

	_, err := resolver.Resolve(context.Background(), "nobody@greenvalley.edu", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

// A matched universe with a wrong password must stop resolution; later
// universes never act as password fallbacks even when they hold the same
// email with a different credential.
func TestResolveStopsAtMatchedUniverse(t *testing.T) {
	resolver, store, auth := resolverFixture(t)

	// Same email as the superadmin also exists as a student with a
	// different password.
	studentStore := &fakeStudentStore{byEmail: map[string]*model.Student{
		"owner@greenvalley.edu": {
			ID: 9, Name: "Impostor", Email: "owner@greenvalley.edu",
			PasswordHash: mustHash(t, auth, "student-pass"),
		},
	}}
	resolver = NewIdentityResolver(auth, store, &fakeInstructorStore{}, studentStore)

	_, err := resolver.Resolve(context.Background(), "owner@greenvalley.edu", "student-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials (no fall-through)", err)
	}
}
