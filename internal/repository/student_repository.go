package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/instihub/instihub-backend/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByEmail retrieves a student by their unique email, hash included.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, institution_id, created_at, updated_at
		 FROM students WHERE email = $1`, email,
	).Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.InstitutionID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetByID retrieves a student by primary key.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, institution_id, created_at, updated_at
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.InstitutionID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}
