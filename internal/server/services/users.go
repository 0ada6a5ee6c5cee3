// Package services contains server-side business logic. Every operation
// validates its input first, then talks to repositories vended by a
// repomanager.RepositoryManager; writes run inside one transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/cryptox"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/validation"
	"github.com/google/uuid"
)

const (
	maxUserNameLength = 100
	maxPasswordLength = 100
	maxNameLength     = 100
)

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Username string
	Password string
	Name     string
}

// UpdateUserInput carries the optional profile changes. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Name     *string
	Password *string
}

// UserService handles registration, login, token lookup, profile updates
// and logout.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher
	newToken    func() string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      cryptox.NewPasswordHasher(cfg.BcryptCost),
		newToken:    uuid.NewString,
	}
}

func (in RegisterInput) validate() error {
	var v validation.Errors
	if v.Required("username", in.Username) {
		v.MaxLength("username", in.Username, maxUserNameLength)
	}
	if v.Required("password", in.Password) {
		v.MaxLength("password", in.Password, maxPasswordLength)
	}
	if v.Required("name", in.Name) {
		v.MaxLength("name", in.Name, maxNameLength)
	}
	return v.Err()
}

func (in UpdateUserInput) validate() error {
	var v validation.Errors
	if in.Name != nil && v.Required("name", *in.Name) {
		v.MaxLength("name", *in.Name, maxNameLength)
	}
	if in.Password != nil && v.Required("password", *in.Password) {
		v.MaxLength("password", *in.Password, maxPasswordLength)
	}
	return v.Err()
}

func usernameTaken() error {
	return validation.Conflict("username", "username already registered")
}

// Register creates a user. A taken username is reported as a field error
// on "username" that also matches common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByLogin(ctx, in.Username)
		switch {
		case err == nil:
			return usernameTaken()
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error checking username: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{
			UserName:     in.Username,
			Name:         in.Name,
			PasswordHash: hash,
		})
		if errors.Is(err, common.ErrorAlreadyExists) {
			return usernameTaken()
		}
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and stores a fresh token on the user,
// replacing any previous one. Unknown users and wrong passwords both yield
// common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, userName, password string) (*models.User, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, common.ErrorInvalidCredentials
	}

	token := s.newToken()
	if err := repo.SetToken(ctx, user.ID, &token); err != nil {
		return nil, fmt.Errorf("error storing token: %w", err)
	}
	user.Token = &token

	return user, nil
}

// Authenticate resolves a token to its user, or common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching token: %w", err)
	}

	return user, nil
}

// UpdateCurrent applies in to the user. The password is re-hashed.
func (s *UserService) UpdateCurrent(ctx context.Context, userID int64, in UpdateUserInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var hash string
	if in.Password != nil {
		var err error
		if hash, err = s.hasher.Hash(*in.Password); err != nil {
			return nil, err
		}
	}

	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		var err error
		user, err = repo.GetUserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		if in.Name != nil {
			user.Name = *in.Name
		}
		if in.Password != nil {
			user.PasswordHash = hash
		}

		if err := repo.Update(ctx, user); err != nil {
			return fmt.Errorf("error updating user: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// Logout clears the user's token.
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	err := s.repomanager.Users(s.db).SetToken(ctx, userID, nil)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("error clearing token: %w", err)
	}
	return nil
}
