package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/instihub/instihub-backend/internal/config"
	"github.com/instihub/instihub-backend/internal/model"
	"github.com/instihub/instihub-backend/internal/repository"
)

// memStore is an in-memory stand-in for the pgx repositories. It enforces
// the same uniqueness rules the schema does, so service-level collision
// handling can be exercised without a database.
type memStore struct {
	nextID         int
	institutions   []*model.Institution
	admins         []*model.DelegatedAdmin
	pending        []*model.PendingInstitution
	platformAdmins []*model.PlatformAdmin
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (m *memStore) id() int {
	id := m.nextID
	m.nextID++
	return id
}

// ─── institutionStore ───────────────────────────────────────────────────────

func (m *memStore) Create(_ context.Context, inst *model.Institution) error {
	for _, existing := range m.institutions {
		if existing.EIIN == inst.EIIN || existing.SuperadminEmail == inst.SuperadminEmail ||
			existing.Slug == inst.Slug || existing.LoginID == inst.LoginID {
			return repository.ErrDuplicate
		}
	}
	cp := *inst
	cp.ID = m.id()
	m.institutions = append(m.institutions, &cp)
	inst.ID = cp.ID
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int) (*model.Institution, error) {
	for _, inst := range m.institutions {
		if inst.ID == id {
			cp := *inst
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) Update(_ context.Context, inst *model.Institution) error {
	for _, existing := range m.institutions {
		if existing.ID == inst.ID {
			existing.Name = inst.Name
			existing.Slug = inst.Slug
			existing.Phone = inst.Phone
			existing.Address = inst.Address
			existing.Description = inst.Description
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) SetActive(_ context.Context, id int, active bool) error {
	for _, inst := range m.institutions {
		if inst.ID == id {
			inst.Active = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id int) error {
	for i, inst := range m.institutions {
		if inst.ID == id {
			m.institutions = append(m.institutions[:i], m.institutions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) ListAll(_ context.Context) ([]model.Institution, error) {
	out := []model.Institution{}
	for _, inst := range m.institutions {
		out = append(out, *inst)
	}
	return out, nil
}

func (m *memStore) SlugExists(_ context.Context, slug string, excludeID int) (bool, error) {
	for _, inst := range m.institutions {
		if inst.Slug == slug && inst.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) LoginIDExists(_ context.Context, loginID string) (bool, error) {
	for _, inst := range m.institutions {
		if inst.LoginID == loginID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ExistsByEIINOrEmail(_ context.Context, eiin, email string) (bool, error) {
	for _, inst := range m.institutions {
		if inst.EIIN == eiin || inst.SuperadminEmail == email {
			return true, nil
		}
	}
	return false, nil
}

// ─── pendingStore ───────────────────────────────────────────────────────────

func (m *memStore) CreatePending(_ context.Context, p *model.PendingInstitution) error {
	// Mirrors the partial unique indexes: only open requests collide.
	for _, existing := range m.pending {
		if existing.Status == model.PendingStatusPending &&
			(existing.EIIN == p.EIIN || existing.SuperadminEmail == p.SuperadminEmail) {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	cp.ID = m.id()
	m.pending = append(m.pending, &cp)
	p.ID = cp.ID
	return nil
}

func (m *memStore) GetPendingByID(_ context.Context, id int) (*model.PendingInstitution, error) {
	for _, p := range m.pending {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) SetStatus(_ context.Context, id int, status model.PendingStatus, notes string) error {
	for _, p := range m.pending {
		if p.ID == id {
			p.Status = status
			p.AdminNotes = notes
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) ListByStatus(_ context.Context, status model.PendingStatus) ([]model.PendingInstitution, error) {
	out := []model.PendingInstitution{}
	for _, p := range m.pending {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) ExistsOpenByEIINOrEmail(_ context.Context, eiin, email string) (bool, error) {
	for _, p := range m.pending {
		if p.Status == model.PendingStatusPending && (p.EIIN == eiin || p.SuperadminEmail == email) {
			return true, nil
		}
	}
	return false, nil
}

// ─── accessStore / institutionAuthStore ─────────────────────────────────────

func (m *memStore) GetBySlug(_ context.Context, slug string) (*model.Institution, error) {
	for _, inst := range m.institutions {
		if inst.Slug == strings.ToLower(slug) {
			cp := *inst
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetBySuperadminEmail(_ context.Context, email string) (*model.Institution, error) {
	for _, inst := range m.institutions {
		if inst.SuperadminEmail == email {
			cp := *inst
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetAdminForAuth(_ context.Context, email string) (*model.Institution, *model.DelegatedAdmin, error) {
	for _, admin := range m.admins {
		if admin.Email == email {
			inst, err := m.GetByID(context.Background(), admin.InstitutionID)
			if err != nil {
				return nil, nil, err
			}
			cp := *admin
			return inst, &cp, nil
		}
	}
	return nil, nil, repository.ErrNotFound
}

func (m *memStore) ListAdmins(_ context.Context, institutionID int) ([]model.DelegatedAdmin, error) {
	out := []model.DelegatedAdmin{}
	for _, admin := range m.admins {
		if admin.InstitutionID == institutionID {
			cp := *admin
			cp.PasswordHash = ""
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *memStore) AdminExists(_ context.Context, institutionID int, email string) (bool, error) {
	for _, admin := range m.admins {
		if admin.InstitutionID == institutionID && admin.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AddAdmin(_ context.Context, admin *model.DelegatedAdmin) error {
	for _, existing := range m.admins {
		if existing.InstitutionID == admin.InstitutionID && existing.Email == admin.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *admin
	cp.ID = m.id()
	m.admins = append(m.admins, &cp)
	admin.ID = cp.ID
	return nil
}

func (m *memStore) RemoveAdmin(_ context.Context, institutionID int, email string) (bool, error) {
	for i, admin := range m.admins {
		if admin.InstitutionID == institutionID && admin.Email == email {
			m.admins = append(m.admins[:i], m.admins[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ─── platformAdminMirrorStore / platformAdminStore ──────────────────────────

func (m *memStore) GetPlatformAdminByID(_ context.Context, id int) (*model.PlatformAdmin, error) {
	for _, a := range m.platformAdmins {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*model.PlatformAdmin, error) {
	for _, a := range m.platformAdmins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateIfAbsent(_ context.Context, a *model.PlatformAdmin) (bool, error) {
	for _, existing := range m.platformAdmins {
		if existing.Email == a.Email {
			return false, nil
		}
	}
	cp := *a
	cp.ID = m.id()
	m.platformAdmins = append(m.platformAdmins, &cp)
	a.ID = cp.ID
	return true, nil
}

// pendingAdapter exposes the memStore pending methods under the pendingStore
// method names, which collide with the institution ones on memStore itself.
type pendingAdapter struct{ m *memStore }

func (p pendingAdapter) Create(ctx context.Context, req *model.PendingInstitution) error {
	return p.m.CreatePending(ctx, req)
}

func (p pendingAdapter) GetByID(ctx context.Context, id int) (*model.PendingInstitution, error) {
	return p.m.GetPendingByID(ctx, id)
}

func (p pendingAdapter) SetStatus(ctx context.Context, id int, status model.PendingStatus, notes string) error {
	return p.m.SetStatus(ctx, id, status, notes)
}

func (p pendingAdapter) ListByStatus(ctx context.Context, status model.PendingStatus) ([]model.PendingInstitution, error) {
	return p.m.ListByStatus(ctx, status)
}

func (p pendingAdapter) ExistsOpenByEIINOrEmail(ctx context.Context, eiin, email string) (bool, error) {
	return p.m.ExistsOpenByEIINOrEmail(ctx, eiin, email)
}

// platformAdapter exposes GetByID under the platformAdminStore name.
type platformAdapter struct{ m *memStore }

func (p platformAdapter) GetByID(ctx context.Context, id int) (*model.PlatformAdmin, error) {
	return p.m.GetPlatformAdminByID(ctx, id)
}

func (p platformAdapter) GetByEmail(ctx context.Context, email string) (*model.PlatformAdmin, error) {
	return p.m.GetByEmail(ctx, email)
}

// ─── instructor / student auth fakes ────────────────────────────────────────

type fakeInstructorStore struct {
	byEmail map[string]*model.Instructor
}

func (f *fakeInstructorStore) GetByEmail(_ context.Context, email string) (*model.Instructor, error) {
	if inst, ok := f.byEmail[email]; ok {
		cp := *inst
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

type fakeStudentStore struct {
	byEmail map[string]*model.Student
}

func (f *fakeStudentStore) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	if s, ok := f.byEmail[email]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

// ─── helpers ────────────────────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		BcryptCost:             bcrypt.MinCost,
		UniversalTokenExpiry:   7 * 24 * time.Hour,
		InstitutionTokenExpiry: time.Hour,
		PlatformTokenExpiry:    24 * time.Hour,
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func mustHash(t interface{ Fatalf(string, ...any) }, auth *AuthService, password string) string {
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}
