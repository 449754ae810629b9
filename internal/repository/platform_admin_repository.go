package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/instihub/instihub-backend/internal/model"
)

// PlatformAdminRepository handles platform operator data access.
type PlatformAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPlatformAdminRepository creates a new PlatformAdminRepository.
func NewPlatformAdminRepository(pool *pgxpool.Pool) *PlatformAdminRepository {
	return &PlatformAdminRepository{pool: pool}
}

const platformAdminColumns = `id, name, email, password_hash, role, is_active, created_at, updated_at`

func (r *PlatformAdminRepository) scanAdmin(row interface{ Scan(...any) error }) (*model.PlatformAdmin, error) {
	a := &model.PlatformAdmin{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// GetByID retrieves a platform admin by primary key.
func (r *PlatformAdminRepository) GetByID(ctx context.Context, id int) (*model.PlatformAdmin, error) {
	return r.scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+platformAdminColumns+` FROM platform_admins WHERE id = $1`, id))
}

// GetByEmail retrieves a platform admin by their unique email.
func (r *PlatformAdminRepository) GetByEmail(ctx context.Context, email string) (*model.PlatformAdmin, error) {
	return r.scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+platformAdminColumns+` FROM platform_admins WHERE email = $1`, email))
}

// Create inserts a new platform admin.
func (r *PlatformAdminRepository) Create(ctx context.Context, a *model.PlatformAdmin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO platform_admins (name, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		a.Name, a.Email, a.PasswordHash, a.Role, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

// CreateIfAbsent inserts a platform admin unless the email already exists.
// Reports whether a row was created. Used by the delegated-admin side
// effect, which must be idempotent.
func (r *PlatformAdminRepository) CreateIfAbsent(ctx context.Context, a *model.PlatformAdmin) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO platform_admins (name, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING`,
		a.Name, a.Email, a.PasswordHash, a.Role, a.IsActive)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() > 0, nil
}
