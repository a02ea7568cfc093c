package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	"github.com/adiprasetyo/evently-api/internal/domain/repository"
)

type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

func (r *AddressRepository) Create(ctx context.Context, a *entity.Address) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO addresses (street, city, state, country, zip_code, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.Street, a.City, a.State, a.Country, a.ZipCode, a.UserID)

	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AddressRepository) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	a := &entity.Address{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, street, city, state, country, zip_code, user_id, created_at, updated_at
		FROM addresses
		WHERE id = $1
	`, id)

	if err := row.Scan(&a.ID, &a.Street, &a.City, &a.State, &a.Country, &a.ZipCode,
		&a.UserID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, lookupErr(err)
	}
	return a, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]entity.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, street, city, state, country, zip_code, user_id, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Address{}
	for rows.Next() {
		var a entity.Address
		if err := rows.Scan(&a.ID, &a.Street, &a.City, &a.State, &a.Country, &a.ZipCode,
			&a.UserID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AddressRepository) Update(ctx context.Context, a *entity.Address) error {
	a.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE addresses
		SET street = $1, city = $2, state = $3, country = $4, zip_code = $5, updated_at = $6
		WHERE id = $7
	`, a.Street, a.City, a.State, a.Country, a.ZipCode, a.UpdatedAt, a.ID)
	if err != nil {
		return lookupErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return lookupErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AddressRepository = (*AddressRepository)(nil)
