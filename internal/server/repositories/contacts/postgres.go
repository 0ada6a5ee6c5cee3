// Package contacts provides the PostgreSQL-backed contact repository.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

const contactColumns = `id, user_id, first_name, last_name, email, phone, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {

	query :=
		`INSERT INTO contacts (user_id, first_name, last_name, email, phone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		contact.UserID, contact.FirstName, contact.LastName, contact.Email, contact.Phone).
		Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return contact, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		 WHERE id = $1 AND user_id = $2
		 `

	return r.getOne(ctx, query, id, userID)
}

// GetForUpdate is Get plus a row lock held until the transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE
		 `

	return r.getOne(ctx, query, id, userID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Update replaces the mutable fields of contact. The owner and id select
// the row; neither can be changed.
func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) error {
	query :=
		`UPDATE contacts
		 SET first_name = $1, last_name = $2, email = $3, phone = $4, updated_at = now()
		 WHERE id = $5 AND user_id = $6
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.ID, contact.UserID).
		Scan(&contact.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query :=
		`DELETE FROM contacts
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
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

// Search returns one page of the user's contacts matching filter, ordered by
// id, together with the total number of matches.
func (r *PostgresRepository) Search(ctx context.Context, userID int64, filter models.ContactFilter) ([]*models.Contact, int64, error) {
	where, args := buildWhere(userID, filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		contactColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Contact, 0, filter.Limit)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

// buildWhere turns filter into a WHERE clause and its positional args.
// Empty filter fields add no condition.
func buildWhere(userID int64, filter models.ContactFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Name != "" {
		args = append(args, likePattern(filter.Name))
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", len(args), len(args)))
	}
	if filter.Email != "" {
		args = append(args, likePattern(filter.Email))
		conds = append(conds, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if filter.Phone != "" {
		args = append(args, likePattern(filter.Phone))
		conds = append(conds, fmt.Sprintf("phone LIKE $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
