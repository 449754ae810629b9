package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/instihub/instihub-backend/internal/model"
)

// InstitutionRepository handles institution and delegated-admin data access.
type InstitutionRepository struct {
	pool *pgxpool.Pool
}

// NewInstitutionRepository creates a new InstitutionRepository.
func NewInstitutionRepository(pool *pgxpool.Pool) *InstitutionRepository {
	return &InstitutionRepository{pool: pool}
}

const institutionColumns = `id, name, eiin, superadmin_email, password_hash, slug, login_id,
	 coalesce(phone, ''), coalesce(address, ''), coalesce(description, ''), active, created_at, updated_at`

func (r *InstitutionRepository) scanInstitution(row interface{ Scan(...any) error }) (*model.Institution, error) {
	inst := &model.Institution{}
	err := row.Scan(&inst.ID, &inst.Name, &inst.EIIN, &inst.SuperadminEmail, &inst.PasswordHash,
		&inst.Slug, &inst.LoginID, &inst.Phone, &inst.Address, &inst.Description,
		&inst.Active, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return inst, nil
}

// Create inserts a new institution. Returns ErrDuplicate when eiin, email,
// slug or login_id collide with an existing row.
func (r *InstitutionRepository) Create(ctx context.Context, inst *model.Institution) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO institutions (name, eiin, superadmin_email, password_hash, slug, login_id,
		                           phone, address, description, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		inst.Name, inst.EIIN, inst.SuperadminEmail, inst.PasswordHash, inst.Slug, inst.LoginID,
		inst.Phone, inst.Address, inst.Description, inst.Active,
	).Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
	return translate(err)
}

// GetByID retrieves an institution by primary key.
func (r *InstitutionRepository) GetByID(ctx context.Context, id int) (*model.Institution, error) {
	return r.scanInstitution(r.pool.QueryRow(ctx,
		`SELECT `+institutionColumns+` FROM institutions WHERE id = $1`, id))
}

// GetBySlug retrieves an institution by slug, case-insensitively.
func (r *InstitutionRepository) GetBySlug(ctx context.Context, slug string) (*model.Institution, error) {
	return r.scanInstitution(r.pool.QueryRow(ctx,
		`SELECT `+institutionColumns+` FROM institutions WHERE slug = lower($1)`, slug))
}

// GetBySuperadminEmail retrieves an institution by its owner's email.
// The email column is stored lowercased; callers pass a normalized value.
func (r *InstitutionRepository) GetBySuperadminEmail(ctx context.Context, email string) (*model.Institution, error) {
	return r.scanInstitution(r.pool.QueryRow(ctx,
		`SELECT `+institutionColumns+` FROM institutions WHERE superadmin_email = $1`, email))
}

// Update persists name, slug and profile fields of an existing institution.
func (r *InstitutionRepository) Update(ctx context.Context, inst *model.Institution) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE institutions
		 SET name = $2, slug = $3, phone = $4, address = $5, description = $6, updated_at = now()
		 WHERE id = $1`,
		inst.ID, inst.Name, inst.Slug, inst.Phone, inst.Address, inst.Description)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles the active flag. Idempotent.
func (r *InstitutionRepository) SetActive(ctx context.Context, id int, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE institutions SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an institution and, via FK cascade, its delegated admins.
func (r *InstitutionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM institutions WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every institution, newest first.
func (r *InstitutionRepository) ListAll(ctx context.Context) ([]model.Institution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+institutionColumns+` FROM institutions ORDER BY created_at DESC`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	institutions := []model.Institution{}
	for rows.Next() {
		inst, err := r.scanInstitution(rows)
		if err != nil {
			return nil, err
		}
		institutions = append(institutions, *inst)
	}
	return institutions, translate(rows.Err())
}

// SlugExists reports whether a slug is taken by any institution other than
// excludeID. Pass excludeID = 0 to check against all rows.
func (r *InstitutionRepository) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM institutions WHERE slug = $1 AND id <> $2)`,
		slug, excludeID).Scan(&exists)
	return exists, translate(err)
}

// LoginIDExists reports whether a login ID is already assigned.
func (r *InstitutionRepository) LoginIDExists(ctx context.Context, loginID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM institutions WHERE login_id = $1)`, loginID).Scan(&exists)
	return exists, translate(err)
}

// ExistsByEIINOrEmail reports whether an approved institution already uses
// the given eiin or superadmin email.
func (r *InstitutionRepository) ExistsByEIINOrEmail(ctx context.Context, eiin, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM institutions WHERE eiin = $1 OR superadmin_email = $2)`,
		eiin, email).Scan(&exists)
	return exists, translate(err)
}

// ────────────────────────────────────────────────────────────────────────────
// Delegated admins
// ────────────────────────────────────────────────────────────────────────────

// ListAdmins returns the delegated admins of an institution using the public
// projection: password hashes are never selected here.
func (r *InstitutionRepository) ListAdmins(ctx context.Context, institutionID int) ([]model.DelegatedAdmin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, institution_id, email, name, role, created_at
		 FROM institution_admins
		 WHERE institution_id = $1
		 ORDER BY created_at`, institutionID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	admins := []model.DelegatedAdmin{}
	for rows.Next() {
		var a model.DelegatedAdmin
		if err := rows.Scan(&a.ID, &a.InstitutionID, &a.Email, &a.Name, &a.Role, &a.CreatedAt); err != nil {
			return nil, translate(err)
		}
		admins = append(admins, a)
	}
	return admins, translate(rows.Err())
}

// GetAdminForAuth looks up a delegated admin by email across all
// institutions using the authentication-only projection (hash included),
// together with the owning institution.
func (r *InstitutionRepository) GetAdminForAuth(ctx context.Context, email string) (*model.Institution, *model.DelegatedAdmin, error) {
	inst := &model.Institution{}
	admin := &model.DelegatedAdmin{}
	err := r.pool.QueryRow(ctx,
		`SELECT i.id, i.name, i.eiin, i.superadmin_email, i.slug, i.login_id, i.active,
		        a.id, a.institution_id, a.email, a.name, a.password_hash, a.role, a.created_at
		 FROM institution_admins a
		 JOIN institutions i ON i.id = a.institution_id
		 WHERE a.email = $1`, email,
	).Scan(&inst.ID, &inst.Name, &inst.EIIN, &inst.SuperadminEmail, &inst.Slug, &inst.LoginID, &inst.Active,
		&admin.ID, &admin.InstitutionID, &admin.Email, &admin.Name, &admin.PasswordHash, &admin.Role, &admin.CreatedAt)
	if err != nil {
		return nil, nil, translate(err)
	}
	return inst, admin, nil
}

// AdminExists reports whether the institution already lists the email.
// Emails are stored lowercased, making the check case-insensitive.
func (r *InstitutionRepository) AdminExists(ctx context.Context, institutionID int, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM institution_admins WHERE institution_id = $1 AND email = $2)`,
		institutionID, email).Scan(&exists)
	return exists, translate(err)
}

// AddAdmin inserts a delegated admin row.
func (r *InstitutionRepository) AddAdmin(ctx context.Context, admin *model.DelegatedAdmin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO institution_admins (institution_id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		admin.InstitutionID, admin.Email, admin.Name, admin.PasswordHash, admin.Role,
	).Scan(&admin.ID, &admin.CreatedAt)
	return translate(err)
}

// RemoveAdmin deletes a delegated admin by email, reporting whether a row
// matched. The list is untouched when no match exists.
func (r *InstitutionRepository) RemoveAdmin(ctx context.Context, institutionID int, email string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM institution_admins WHERE institution_id = $1 AND email = $2`,
		institutionID, email)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() > 0, nil
}
