package service

import (
	"context"
	"errors"

	"github.com/instihub/instihub-backend/internal/model"
)

// Identity is a resolved account from one of the disjoint identity
// universes handled by the universal login.
type Identity struct {
	ID    int
	Role  Role
	Name  string
	Email string // normalized login email

	// Institution logins only.
	InstitutionID int
	Slug          string
	EIIN          string
	IsSuperadmin  bool
	// AdminEmail is set when the login resolved through a delegated
	// admin entry rather than the superadmin credentials.
	AdminEmail string
}

// IdentityProvider authenticates an email/password pair against one
// identity universe. Implementations return ErrNoMatch when the universe
// does not contain the email, and ErrInvalidCredentials when the email is
// present but the password does not verify.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}

// Store contracts consumed by the providers. The concrete pgx
// repositories satisfy these; tests substitute in-memory fakes.

type institutionAuthStore interface {
	GetBySuperadminEmail(ctx context.Context, email string) (*model.Institution, error)
	GetAdminForAuth(ctx context.Context, email string) (*model.Institution, *model.DelegatedAdmin, error)
}

type instructorAuthStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Instructor, error)
}

type studentAuthStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
}

// IdentityResolver walks the identity universes in a fixed priority order:
// institution superadmin, delegated admin, instructor, student. The first
// universe containing the email decides the outcome; every failure
// collapses into ErrInvalidCredentials so callers cannot probe which
// universe an email lives in.
type IdentityResolver struct {
	providers []IdentityProvider
}

// NewIdentityResolver wires the four standard providers in resolution order.
func NewIdentityResolver(
	auth *AuthService,
	institutions institutionAuthStore,
	instructors instructorAuthStore,
	students studentAuthStore,
) *IdentityResolver {
	return &IdentityResolver{
		providers: []IdentityProvider{
			&institutionSuperadminProvider{auth: auth, store: institutions},
			&delegatedAdminProvider{auth: auth, store: institutions},
			&instructorProvider{auth: auth, store: instructors},
			&studentProvider{auth: auth, store: students},
		},
	}
}

// Resolve authenticates an email/password pair. On success the returned
// identity carries everything the session issuer needs; on any failure the
// error is ErrInvalidCredentials (or an internal storage error).
func (r *IdentityResolver) Resolve(ctx context.Context, email, password string) (*Identity, error) {
	normalized := NormalizeEmail(email)

	for _, p := range r.providers {
		identity, err := p.Authenticate(ctx, normalized, password)
		switch {
		case err == nil:
			return identity, nil
		case errors.Is(err, ErrNoMatch):
			continue
		case errors.Is(err, ErrInvalidCredentials):
			// The email matched this universe but the password did not.
			// Stop here — later universes must not act as fallbacks.
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	return nil, ErrInvalidCredentials
}

// ────────────────────────────────────────────────────────────────────────────
// Providers
// ────────────────────────────────────────────────────────────────────────────

type institutionSuperadminProvider struct {
	auth  *AuthService
	store institutionAuthStore
}

func (p *institutionSuperadminProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	inst, err := p.store.GetBySuperadminEmail(ctx, email)
	if err != nil {
		if errors.Is(mapStoreErr(err), ErrNotFound) {
			return nil, ErrNoMatch
		}
		return nil, mapStoreErr(err)
	}
	if err := p.auth.CheckPassword(inst.PasswordHash, password); err != nil {
		return nil, err
	}
	return &Identity{
		ID:            inst.ID,
		Role:          RoleInstitution,
		Name:          inst.Name,
		Email:         email,
		InstitutionID: inst.ID,
		Slug:          inst.Slug,
		EIIN:          inst.EIIN,
		IsSuperadmin:  true,
	}, nil
}

type delegatedAdminProvider struct {
	auth  *AuthService
	store institutionAuthStore
}

func (p *delegatedAdminProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	inst, admin, err := p.store.GetAdminForAuth(ctx, email)
	if err != nil {
		if errors.Is(mapStoreErr(err), ErrNotFound) {
			return nil, ErrNoMatch
		}
		return nil, mapStoreErr(err)
	}
	// The delegated admin's own hash, never the institution's.
	if err := p.auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, err
	}
	return &Identity{
		ID:            inst.ID,
		Role:          RoleInstitution,
		Name:          inst.Name,
		Email:         email,
		InstitutionID: inst.ID,
		Slug:          inst.Slug,
		EIIN:          inst.EIIN,
		IsSuperadmin:  false,
		AdminEmail:    admin.Email,
	}, nil
}

type instructorProvider struct {
	auth  *AuthService
	store instructorAuthStore
}

func (p *instructorProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	instructor, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(mapStoreErr(err), ErrNotFound) {
			return nil, ErrNoMatch
		}
		return nil, mapStoreErr(err)
	}
	if err := p.auth.CheckPassword(instructor.PasswordHash, password); err != nil {
		return nil, err
	}
	return &Identity{
		ID:    instructor.ID,
		Role:  RoleInstructor,
		Name:  instructor.Name,
		Email: email,
	}, nil
}

type studentProvider struct {
	auth  *AuthService
	store studentAuthStore
}

func (p *studentProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	student, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(mapStoreErr(err), ErrNotFound) {
			return nil, ErrNoMatch
		}
		return nil, mapStoreErr(err)
	}
	if err := p.auth.CheckPassword(student.PasswordHash, password); err != nil {
		return nil, err
	}
	return &Identity{
		ID:    student.ID,
		Role:  RoleStudent,
		Name:  student.Name,
		Email: email,
	}, nil
}
