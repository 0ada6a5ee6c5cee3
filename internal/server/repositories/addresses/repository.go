package addresses

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

// Repository stores addresses. Every lookup is scoped by the owning contact;
// contact ownership itself is checked by the caller.
type Repository interface {
	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	Get(ctx context.Context, contactID, id int64) (*models.Address, error)
	GetForUpdate(ctx context.Context, contactID, id int64) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, contactID, id int64) error
	ListByContact(ctx context.Context, contactID int64) ([]*models.Address, error)
}
