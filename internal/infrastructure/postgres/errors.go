package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adiprasetyo/evently-api/internal/domain/repository"
)

// SQLSTATE codes this layer translates into domain errors.
const (
	uniqueViolation  = "23505"
	invalidTextValue = "22P02"
)

// lookupErr maps id-lookup failures to repository.ErrNotFound. A value that
// does not even cast to uuid (22P02) matches no row by definition, so it gets
// the same answer as a missing one instead of surfacing a syntax error.
func lookupErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextValue {
		return repository.ErrNotFound
	}
	return err
}
