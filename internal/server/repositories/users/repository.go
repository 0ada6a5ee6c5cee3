package users

import (
	"context"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	GetUserForUpdate(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetToken(ctx context.Context, id int64, token *string) error
}
