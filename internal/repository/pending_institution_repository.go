package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/instihub/instihub-backend/internal/model"
)

// PendingInstitutionRepository handles registration-request data access.
type PendingInstitutionRepository struct {
	pool *pgxpool.Pool
}

// NewPendingInstitutionRepository creates a new PendingInstitutionRepository.
func NewPendingInstitutionRepository(pool *pgxpool.Pool) *PendingInstitutionRepository {
	return &PendingInstitutionRepository{pool: pool}
}

const pendingColumns = `id, name, eiin, superadmin_email, password_hash,
	 coalesce(phone, ''), coalesce(address, ''), coalesce(description, ''),
	 status, coalesce(admin_notes, ''), created_at`

func (r *PendingInstitutionRepository) scanPending(row interface{ Scan(...any) error }) (*model.PendingInstitution, error) {
	p := &model.PendingInstitution{}
	err := row.Scan(&p.ID, &p.Name, &p.EIIN, &p.SuperadminEmail, &p.PasswordHash,
		&p.Phone, &p.Address, &p.Description, &p.Status, &p.AdminNotes, &p.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Create inserts a new pending registration request. Returns ErrDuplicate
// when another still-open request already claims the eiin or email; the
// partial unique indexes decide the winner when two registrations race past
// the application-level existence check.
func (r *PendingInstitutionRepository) Create(ctx context.Context, p *model.PendingInstitution) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pending_institutions
		   (name, eiin, superadmin_email, password_hash, phone, address, description, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		p.Name, p.EIIN, p.SuperadminEmail, p.PasswordHash, p.Phone, p.Address, p.Description, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	return translate(err)
}

// GetByID retrieves a registration request by primary key.
func (r *PendingInstitutionRepository) GetByID(ctx context.Context, id int) (*model.PendingInstitution, error) {
	return r.scanPending(r.pool.QueryRow(ctx,
		`SELECT `+pendingColumns+` FROM pending_institutions WHERE id = $1`, id))
}

// SetStatus transitions a request to approved/rejected with optional notes.
func (r *PendingInstitutionRepository) SetStatus(ctx context.Context, id int, status model.PendingStatus, notes string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pending_institutions SET status = $2, admin_notes = NULLIF($3, '') WHERE id = $1`,
		id, status, notes)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByStatus returns requests in the given state, newest first.
func (r *PendingInstitutionRepository) ListByStatus(ctx context.Context, status model.PendingStatus) ([]model.PendingInstitution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+pendingColumns+` FROM pending_institutions WHERE status = $1 ORDER BY created_at DESC`,
		status)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	pending := []model.PendingInstitution{}
	for rows.Next() {
		p, err := r.scanPending(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, *p)
	}
	return pending, translate(rows.Err())
}

// ExistsOpenByEIINOrEmail reports whether another still-pending request
// already claims the given eiin or email. Processed requests don't block
// re-registration.
func (r *PendingInstitutionRepository) ExistsOpenByEIINOrEmail(ctx context.Context, eiin, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM pending_institutions
		   WHERE status = 'pending' AND (eiin = $1 OR superadmin_email = $2)
		 )`, eiin, email).Scan(&exists)
	return exists, translate(err)
}
