package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/instihub/instihub-backend/internal/model"
)

// InstructorRepository handles instructor data access.
type InstructorRepository struct {
	pool *pgxpool.Pool
}

// NewInstructorRepository creates a new InstructorRepository.
func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{pool: pool}
}

// GetByEmail retrieves an instructor by their unique email, hash included.
func (r *InstructorRepository) GetByEmail(ctx context.Context, email string) (*model.Instructor, error) {
	i := &model.Instructor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, coalesce(phone, ''), institution_id, created_at, updated_at
		 FROM instructors WHERE email = $1`, email,
	).Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.Phone, &i.InstitutionID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return i, nil
}

// GetByID retrieves an instructor by primary key.
func (r *InstructorRepository) GetByID(ctx context.Context, id int) (*model.Instructor, error) {
	i := &model.Instructor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, coalesce(phone, ''), institution_id, created_at, updated_at
		 FROM instructors WHERE id = $1`, id,
	).Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.Phone, &i.InstitutionID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return i, nil
}
