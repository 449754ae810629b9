package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/model"
)

// DefaultDelegatedPassword seeds a delegated admin account when the
// superadmin does not supply a password. It is hashed before storage like
// any other credential; the admin is expected to change it.
const DefaultDelegatedPassword = "pass1234"

type accessStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.Institution, error)
	ListAdmins(ctx context.Context, institutionID int) ([]model.DelegatedAdmin, error)
	AdminExists(ctx context.Context, institutionID int, email string) (bool, error)
	AddAdmin(ctx context.Context, admin *model.DelegatedAdmin) error
	RemoveAdmin(ctx context.Context, institutionID int, email string) (bool, error)
}

type platformAdminMirrorStore interface {
	CreateIfAbsent(ctx context.Context, a *model.PlatformAdmin) (bool, error)
}

// AccessService manages an institution's delegated admin registry.
//
// Authorization policy: every mutation and read is gated on the requester's
// authenticated email matching the institution's superadmin email,
// case-insensitively. The policy deliberately ignores the "master" role tag
// on the admins list (see DESIGN.md); a delegated admin of the same
// institution is still Forbidden here.
type AccessService struct {
	store          accessStore
	platformAdmins platformAdminMirrorStore
	auth           *AuthService
	log            zerolog.Logger
}

// NewAccessService creates a new AccessService.
func NewAccessService(store accessStore, platformAdmins platformAdminMirrorStore, auth *AuthService, log zerolog.Logger) *AccessService {
	return &AccessService{
		store:          store,
		platformAdmins: platformAdmins,
		auth:           auth,
		log:            log.With().Str("component", "access_service").Logger(),
	}
}

// authorize loads the institution by slug and verifies the requester is its
// superadmin. The requester email comes from verified token claims, never
// from the request body.
func (s *AccessService) authorize(ctx context.Context, slug, requesterEmail string) (*model.Institution, error) {
	inst, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if NormalizeEmail(requesterEmail) != inst.SuperadminEmail {
		return nil, ErrForbidden
	}
	return inst, nil
}

// ListAdmins returns the institution and its delegated admins (public
// projection, no password hashes).
func (s *AccessService) ListAdmins(ctx context.Context, slug, requesterEmail string) (*model.Institution, []model.DelegatedAdmin, error) {
	inst, err := s.authorize(ctx, slug, requesterEmail)
	if err != nil {
		return nil, nil, err
	}
	admins, err := s.store.ListAdmins(ctx, inst.ID)
	if err != nil {
		return nil, nil, mapStoreErr(err)
	}
	return inst, admins, nil
}

// AddAdmin grants a new delegated admin. The password defaults to
// DefaultDelegatedPassword when omitted and is always hashed. As a side
// effect a platform-wide admin record is created for the email if absent —
// deliberate cross-cutting behavior so the account can reach platform
// surfaces in deployments that enable it.
func (s *AccessService) AddAdmin(ctx context.Context, slug, requesterEmail string, req model.AddDelegatedAdminRequest) (*model.DelegatedAdmin, error) {
	inst, err := s.authorize(ctx, slug, requesterEmail)
	if err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)
	if email == inst.SuperadminEmail {
		return nil, ErrCannotAddSelf
	}

	exists, err := s.store.AdminExists(ctx, inst.ID, email)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if exists {
		return nil, ErrDuplicateAdmin
	}

	password := req.Password
	if password == "" {
		password = DefaultDelegatedPassword
	}
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = emailLocalPart(email)
	}

	created, err := s.platformAdmins.CreateIfAbsent(ctx, &model.PlatformAdmin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.PlatformRoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if created {
		s.log.Info().Str("email", email).Msg("Mirrored delegated admin to platform admins")
	}

	admin := &model.DelegatedAdmin{
		InstitutionID: inst.ID,
		Email:         email,
		Name:          name,
		PasswordHash:  hash,
		Role:          model.DelegatedRoleAdmin,
	}
	if err := s.store.AddAdmin(ctx, admin); err != nil {
		return nil, mapStoreErr(err)
	}
	return admin, nil
}

// RemoveAdmin revokes a delegated admin by case-insensitive email match.
// A missing entry is NotFound — distinct from Forbidden — and leaves the
// list unchanged.
func (s *AccessService) RemoveAdmin(ctx context.Context, slug, requesterEmail, email string) error {
	inst, err := s.authorize(ctx, slug, requesterEmail)
	if err != nil {
		return err
	}

	target := NormalizeEmail(email)
	if target == inst.SuperadminEmail {
		// The master entry mirrors the superadmin and cannot be revoked.
		return ErrForbidden
	}

	matched, err := s.store.RemoveAdmin(ctx, inst.ID, target)
	if err != nil {
		return mapStoreErr(err)
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
