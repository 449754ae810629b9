package service

import (
	"context"
	"errors"

	"github.com/instihub/instihub-backend/internal/model"
)

type platformAdminStore interface {
	GetByEmail(ctx context.Context, email string) (*model.PlatformAdmin, error)
	GetByID(ctx context.Context, id int) (*model.PlatformAdmin, error)
}

// PlatformAdminService authenticates platform operators. This identity
// space is independent from institution accounts and is not reachable
// through the universal login.
type PlatformAdminService struct {
	store platformAdminStore
	auth  *AuthService
}

// NewPlatformAdminService creates a new PlatformAdminService.
func NewPlatformAdminService(store platformAdminStore, auth *AuthService) *PlatformAdminService {
	return &PlatformAdminService{store: store, auth: auth}
}

// Login verifies a platform admin's credentials. Deactivated accounts are
// rejected even with a correct password.
func (s *PlatformAdminService) Login(ctx context.Context, email, password string) (*model.PlatformAdmin, error) {
	admin, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(mapStoreErr(err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, mapStoreErr(err)
	}
	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := s.auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, err
	}
	return admin, nil
}

// GetByID retrieves a platform admin profile.
func (s *PlatformAdminService) GetByID(ctx context.Context, id int) (*model.PlatformAdmin, error) {
	admin, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return admin, nil
}
