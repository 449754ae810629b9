package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/model"
	"github.com/instihub/instihub-backend/internal/slug"
)

// maxLoginIDAttempts bounds the random login-ID collision loop. With an
// 8-digit space the chance of exhausting this is negligible.
const maxLoginIDAttempts = 25

type institutionStore interface {
	Create(ctx context.Context, inst *model.Institution) error
	GetByID(ctx context.Context, id int) (*model.Institution, error)
	Update(ctx context.Context, inst *model.Institution) error
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	ListAll(ctx context.Context) ([]model.Institution, error)
	SlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
	LoginIDExists(ctx context.Context, loginID string) (bool, error)
	ExistsByEIINOrEmail(ctx context.Context, eiin, email string) (bool, error)
	AddAdmin(ctx context.Context, admin *model.DelegatedAdmin) error
}

type pendingStore interface {
	Create(ctx context.Context, p *model.PendingInstitution) error
	GetByID(ctx context.Context, id int) (*model.PendingInstitution, error)
	SetStatus(ctx context.Context, id int, status model.PendingStatus, notes string) error
	ListByStatus(ctx context.Context, status model.PendingStatus) ([]model.PendingInstitution, error)
	ExistsOpenByEIINOrEmail(ctx context.Context, eiin, email string) (bool, error)
}

// InstitutionService drives the institution lifecycle: registration intake,
// approval/rejection, activation toggles and deletion.
type InstitutionService struct {
	institutions institutionStore
	pending      pendingStore
	auth         *AuthService
	log          zerolog.Logger
}

// NewInstitutionService creates a new InstitutionService.
func NewInstitutionService(institutions institutionStore, pending pendingStore, auth *AuthService, log zerolog.Logger) *InstitutionService {
	return &InstitutionService{
		institutions: institutions,
		pending:      pending,
		auth:         auth,
		log:          log.With().Str("component", "institution_service").Logger(),
	}
}

// GenerateUniqueSlug derives a slug from name and bumps a numeric suffix
// until no other institution (excluding excludeID) holds it. The loop is
// bounded by the number of existing colliding slugs plus one.
func (s *InstitutionService) GenerateUniqueSlug(ctx context.Context, name string, excludeID int) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "institution"
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := s.institutions.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", mapStoreErr(err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// generateLoginID picks a random 8-digit numeric login ID, retrying on
// collision.
func (s *InstitutionService) generateLoginID(ctx context.Context) (string, error) {
	for range maxLoginIDAttempts {
		candidate := fmt.Sprintf("%08d", 10000000+rand.IntN(90000000))
		taken, err := s.institutions.LoginIDExists(ctx, candidate)
		if err != nil {
			return "", mapStoreErr(err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("login ID space exhausted after %d attempts", maxLoginIDAttempts)
}

// Register submits a new registration request. Duplicate eiin or email is
// rejected across both approved institutions and still-open requests; the
// password is hashed before the pending record is written.
func (s *InstitutionService) Register(ctx context.Context, req model.RegisterInstitutionRequest) (*model.PendingInstitution, error) {
	email := NormalizeEmail(req.Email)
	eiin := strings.ToUpper(strings.TrimSpace(req.EIIN))

	approved, err := s.institutions.ExistsByEIINOrEmail(ctx, eiin, email)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if approved {
		return nil, ErrConflict
	}

	open, err := s.pending.ExistsOpenByEIINOrEmail(ctx, eiin, email)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if open {
		return nil, ErrConflict
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	p := &model.PendingInstitution{
		Name:            strings.TrimSpace(req.Name),
		EIIN:            eiin,
		SuperadminEmail: email,
		PasswordHash:    hash,
		Phone:           req.Phone,
		Address:         req.Address,
		Description:     req.Description,
		Status:          model.PendingStatusPending,
	}
	if err := s.pending.Create(ctx, p); err != nil {
		return nil, mapStoreErr(err)
	}

	s.log.Info().Str("eiin", eiin).Str("email", email).Msg("Registration request submitted")
	return p, nil
}

// Approve turns a pending request into an active institution. The
// institution row is created first and the pending status flipped second:
// a crash between the writes leaves a detectable duplicate-institution
// conflict on retry, never a silently lost approval.
func (s *InstitutionService) Approve(ctx context.Context, pendingID int) (*model.Institution, error) {
	p, err := s.pending.GetByID(ctx, pendingID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if p.Status != model.PendingStatusPending {
		return nil, ErrAlreadyProcessed
	}

	instSlug, err := s.GenerateUniqueSlug(ctx, p.Name, 0)
	if err != nil {
		return nil, err
	}
	loginID, err := s.generateLoginID(ctx)
	if err != nil {
		return nil, err
	}

	inst := &model.Institution{
		Name:            p.Name,
		EIIN:            p.EIIN,
		SuperadminEmail: p.SuperadminEmail,
		PasswordHash:    p.PasswordHash, // already hashed at registration, copied verbatim
		Slug:            instSlug,
		LoginID:         loginID,
		Phone:           p.Phone,
		Address:         p.Address,
		Description:     p.Description,
		Active:          true,
	}
	if err := s.institutions.Create(ctx, inst); err != nil {
		return nil, mapStoreErr(err)
	}

	// Seed the master-tagged registry entry mirroring the superadmin. It
	// shares the institution's credential and cannot be revoked.
	master := &model.DelegatedAdmin{
		InstitutionID: inst.ID,
		Email:         inst.SuperadminEmail,
		Name:          emailLocalPart(inst.SuperadminEmail),
		PasswordHash:  inst.PasswordHash,
		Role:          model.DelegatedRoleMaster,
	}
	if err := s.institutions.AddAdmin(ctx, master); err != nil {
		return nil, mapStoreErr(err)
	}

	if err := s.pending.SetStatus(ctx, pendingID, model.PendingStatusApproved, ""); err != nil {
		// The institution exists; surface the failure so the operator
		// retries and hits the duplicate conflict instead of losing it.
		s.log.Error().Err(err).Int("pending_id", pendingID).Msg("Institution created but pending status not flipped")
		return nil, mapStoreErr(err)
	}

	s.log.Info().Str("slug", inst.Slug).Str("eiin", inst.EIIN).Msg("Institution approved")
	return inst, nil
}

// Reject marks a pending request as rejected. Terminal.
func (s *InstitutionService) Reject(ctx context.Context, pendingID int, reason string) (*model.PendingInstitution, error) {
	p, err := s.pending.GetByID(ctx, pendingID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if p.Status != model.PendingStatusPending {
		return nil, ErrAlreadyProcessed
	}

	if strings.TrimSpace(reason) == "" {
		reason = "No reason provided"
	}
	if err := s.pending.SetStatus(ctx, pendingID, model.PendingStatusRejected, reason); err != nil {
		return nil, mapStoreErr(err)
	}

	p.Status = model.PendingStatusRejected
	p.AdminNotes = reason
	return p, nil
}

// UpdateProfile edits an institution's display fields. The slug is
// regenerated only when the name actually changed; re-saving an unchanged
// name keeps the existing slug.
func (s *InstitutionService) UpdateProfile(ctx context.Context, id int, name, phone, address, description string) (*model.Institution, error) {
	inst, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	name = strings.TrimSpace(name)
	if name != "" && name != inst.Name {
		newSlug, err := s.GenerateUniqueSlug(ctx, name, inst.ID)
		if err != nil {
			return nil, err
		}
		inst.Name = name
		inst.Slug = newSlug
	}
	inst.Phone = phone
	inst.Address = address
	inst.Description = description

	if err := s.institutions.Update(ctx, inst); err != nil {
		return nil, mapStoreErr(err)
	}
	return inst, nil
}

// SetActive toggles the active flag. Idempotent.
func (s *InstitutionService) SetActive(ctx context.Context, id int, active bool) error {
	return mapStoreErr(s.institutions.SetActive(ctx, id, active))
}

// Delete removes an institution permanently.
func (s *InstitutionService) Delete(ctx context.Context, id int) error {
	return mapStoreErr(s.institutions.Delete(ctx, id))
}

// GetByID retrieves one institution.
func (s *InstitutionService) GetByID(ctx context.Context, id int) (*model.Institution, error) {
	inst, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return inst, nil
}

// ListAll returns every institution.
func (s *InstitutionService) ListAll(ctx context.Context) ([]model.Institution, error) {
	list, err := s.institutions.ListAll(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return list, nil
}

// ListPending returns registration requests awaiting review.
func (s *InstitutionService) ListPending(ctx context.Context) ([]model.PendingInstitution, error) {
	list, err := s.pending.ListByStatus(ctx, model.PendingStatusPending)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return list, nil
}
