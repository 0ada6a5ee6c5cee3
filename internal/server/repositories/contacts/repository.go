package contacts

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository stores contacts. Every lookup is scoped by the owning user id,
// so a contact owned by someone else is reported as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Get(ctx context.Context, userID, id int64) (*models.Contact, error)
	GetForUpdate(ctx context.Context, userID, id int64) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, userID, id int64) error
	Search(ctx context.Context, userID int64, filter models.ContactFilter) ([]*models.Contact, int64, error)
}
