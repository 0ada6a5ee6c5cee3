// Package addresses provides the PostgreSQL-backed address repository.
package addresses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

const addressColumns = `id, contact_id, street, city, province, country, postal_code, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, address *models.Address) (*models.Address, error) {

	query :=
		`INSERT INTO addresses (contact_id, street, city, province, country, postal_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		address.ContactID, address.Street, address.City, address.Province, address.Country, address.PostalCode).
		Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return address, nil
}

func (r *PostgresRepository) Get(ctx context.Context, contactID, id int64) (*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses
		 WHERE id = $1 AND contact_id = $2
		 `

	return r.getOne(ctx, query, id, contactID)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, contactID, id int64) (*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses
		 WHERE id = $1 AND contact_id = $2
		 FOR UPDATE
		 `

	return r.getOne(ctx, query, id, contactID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, address *models.Address) error {
	query :=
		`UPDATE addresses
		 SET street = $1, city = $2, province = $3, country = $4, postal_code = $5, updated_at = now()
		 WHERE id = $6 AND contact_id = $7
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		address.Street, address.City, address.Province, address.Country, address.PostalCode,
		address.ID, address.ContactID).
		Scan(&address.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, contactID, id int64) error {
	query :=
		`DELETE FROM addresses
		 WHERE id = $1 AND contact_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, contactID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListByContact returns every address of the contact in insertion order.
func (r *PostgresRepository) ListByContact(ctx context.Context, contactID int64) ([]*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses
		 WHERE contact_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAddress(row scanner) (*models.Address, error) {
	a := &models.Address{}
	err := row.Scan(&a.ID, &a.ContactID, &a.Street, &a.City, &a.Province, &a.Country, &a.PostalCode,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
