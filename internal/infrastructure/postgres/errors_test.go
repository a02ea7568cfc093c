package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adiprasetyo/evently-api/internal/domain/repository"
)

func TestLookupErr(t *testing.T) {
	execFailed := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"id not castable to uuid", &pgconn.PgError{Code: invalidTextValue, Message: "invalid input syntax for type uuid"}, repository.ErrNotFound},
		{"unique violation passes through", &pgconn.PgError{Code: uniqueViolation}, nil},
		{"other errors pass through", execFailed, execFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lookupErr(tt.in)
			if tt.want == nil {
				// Pass-through: the original error must survive unchanged.
				if !errors.Is(got, tt.in) {
					t.Fatalf("got %v, want the input error back", got)
				}
				if errors.Is(got, repository.ErrNotFound) {
					t.Fatal("must not be mapped to ErrNotFound")
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
