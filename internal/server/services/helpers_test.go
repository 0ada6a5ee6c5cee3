package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	contactsrepo "github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/memtest"
	usersrepo "github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

func ptr(s string) *string { return &s }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{BcryptCost: bcrypt.MinCost, MaxPageSize: 100}
}

// expectTx queues one committed transaction.
func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

// expectFailedTx queues one rolled back transaction.
func expectFailedTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

func seedUser(t *testing.T, m *memtest.RepositoryManager, userName string) *models.User {
	t.Helper()
	u, err := m.Users(nil).Create(context.Background(), &models.User{UserName: userName, Name: userName, PasswordHash: "-"})
	require.NoError(t, err)
	return u
}

func seedContact(t *testing.T, m *memtest.RepositoryManager, userID int64, firstName string) *models.Contact {
	t.Helper()
	c, err := m.Contacts(nil).Create(context.Background(), &models.Contact{UserID: userID, FirstName: firstName})
	require.NoError(t, err)
	return c
}

// fakeRepoManager serves the in-memory repositories unless an override is set.
type fakeRepoManager struct {
	*memtest.RepositoryManager
	users    usersrepo.Repository
	contacts contactsrepo.Repository
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	if m.users != nil {
		return m.users
	}
	return m.RepositoryManager.Users(db)
}

func (m *fakeRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository {
	if m.contacts != nil {
		return m.contacts
	}
	return m.RepositoryManager.Contacts(db)
}

type fakeUsersRepo struct {
	usersrepo.Repository
	getErr      error
	createErr   error
	setTokenErr error
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.GetUserByLogin(ctx, login)
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, u)
}

func (f *fakeUsersRepo) SetToken(ctx context.Context, id int64, token *string) error {
	if f.setTokenErr != nil {
		return f.setTokenErr
	}
	return f.Repository.SetToken(ctx, id, token)
}

type fakeContactsRepo struct {
	contactsrepo.Repository
	searchErr error
}

func (f *fakeContactsRepo) Search(ctx context.Context, userID int64, filter models.ContactFilter) ([]*models.Contact, int64, error) {
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.Repository.Search(ctx, userID, filter)
}
