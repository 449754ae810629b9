package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage-level sentinel errors. Repositories translate driver errors into
// these so services and their test fakes share one contract.
var (
	// ErrNotFound wraps pgx.ErrNoRows for single-row lookups.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate wraps unique-constraint violations (SQLSTATE 23505).
	// Uniqueness of eiin/email/slug/login_id is ultimately enforced here,
	// at the storage layer, so concurrent check-then-write races cannot
	// produce two winners.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps pgx driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
