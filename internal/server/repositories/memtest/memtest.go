// Package memtest provides an in-memory RepositoryManager for tests. It
// mirrors the PostgreSQL repositories closely enough to back service and
// handler tests without a database server; the DBTX passed to its factories
// is ignored. Production code never imports it.
package memtest

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/users"
)

type store struct {
	mu sync.Mutex

	lastID    int64
	users     map[int64]models.User
	contacts  map[int64]models.Contact
	addresses map[int64]models.Address
}

func (s *store) nextID() int64 {
	s.lastID++
	return s.lastID
}

// RepositoryManager vends repositories sharing one in-memory store.
type RepositoryManager struct {
	s *store
}

func NewRepositoryManager() *RepositoryManager {
	return &RepositoryManager{s: &store{
		users:     map[int64]models.User{},
		contacts:  map[int64]models.Contact{},
		addresses: map[int64]models.Address{},
	}}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository { return &userRepo{m.s} }

func (m *RepositoryManager) Contacts(dbx.DBTX) contacts.Repository { return &contactRepo{m.s} }

func (m *RepositoryManager) Addresses(dbx.DBTX) addresses.Repository { return &addressRepo{m.s} }

type userRepo struct{ s *store }

func (r *userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.UserName == user.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}

	now := time.Now()
	user.ID = r.s.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return user, nil
}

func (r *userRepo) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.UserName == login })
}

func (r *userRepo) GetUserByToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Token != nil && *u.Token == token })
}

func (r *userRepo) GetUserForUpdate(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *userRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Name = user.Name
	u.PasswordHash = user.PasswordHash
	u.UpdatedAt = time.Now()
	r.s.users[u.ID] = u
	user.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *userRepo) SetToken(_ context.Context, id int64, token *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	if token != nil {
		for _, other := range r.s.users {
			if other.ID != id && other.Token != nil && *other.Token == *token {
				return common.ErrorAlreadyExists
			}
		}
		t := *token
		token = &t
	}
	u.Token = token
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

type contactRepo struct{ s *store }

func (r *contactRepo) Create(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[contact.UserID]; !ok {
		return nil, fmt.Errorf("db error: user %d does not exist", contact.UserID)
	}

	now := time.Now()
	contact.ID = r.s.nextID()
	contact.CreatedAt, contact.UpdatedAt = now, now
	r.s.contacts[contact.ID] = *contact
	return contact, nil
}

func (r *contactRepo) Get(_ context.Context, userID, id int64) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *contactRepo) GetForUpdate(ctx context.Context, userID, id int64) (*models.Contact, error) {
	return r.Get(ctx, userID, id)
}

func (r *contactRepo) Update(_ context.Context, contact *models.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[contact.ID]
	if !ok || c.UserID != contact.UserID {
		return common.ErrorNotFound
	}
	contact.CreatedAt = c.CreatedAt
	contact.UpdatedAt = time.Now()
	r.s.contacts[contact.ID] = *contact
	return nil
}

func (r *contactRepo) Delete(_ context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.contacts, id)
	for aid, a := range r.s.addresses {
		if a.ContactID == id {
			delete(r.s.addresses, aid)
		}
	}
	return nil
}

func (r *contactRepo) Search(_ context.Context, userID int64, filter models.ContactFilter) ([]*models.Contact, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []models.Contact
	for _, c := range r.s.contacts {
		if c.UserID == userID && matches(c, filter) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	result := []*models.Contact{}
	start := max(filter.Offset, 0)
	for i := start; i < len(matched) && i-start < filter.Limit; i++ {
		c := matched[i]
		result = append(result, &c)
	}
	return result, int64(len(matched)), nil
}

func matches(c models.Contact, f models.ContactFilter) bool {
	if f.Name != "" && !containsFold(c.FirstName, f.Name) && !containsFold(deref(c.LastName), f.Name) {
		return false
	}
	if f.Email != "" && !containsFold(deref(c.Email), f.Email) {
		return false
	}
	if f.Phone != "" && !strings.Contains(deref(c.Phone), f.Phone) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type addressRepo struct{ s *store }

func (r *addressRepo) Create(_ context.Context, address *models.Address) (*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contacts[address.ContactID]; !ok {
		return nil, fmt.Errorf("db error: contact %d does not exist", address.ContactID)
	}

	now := time.Now()
	address.ID = r.s.nextID()
	address.CreatedAt, address.UpdatedAt = now, now
	r.s.addresses[address.ID] = *address
	return address, nil
}

func (r *addressRepo) Get(_ context.Context, contactID, id int64) (*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.addresses[id]
	if !ok || a.ContactID != contactID {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *addressRepo) GetForUpdate(ctx context.Context, contactID, id int64) (*models.Address, error) {
	return r.Get(ctx, contactID, id)
}

func (r *addressRepo) Update(_ context.Context, address *models.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.addresses[address.ID]
	if !ok || a.ContactID != address.ContactID {
		return common.ErrorNotFound
	}
	address.CreatedAt = a.CreatedAt
	address.UpdatedAt = time.Now()
	r.s.addresses[address.ID] = *address
	return nil
}

func (r *addressRepo) Delete(_ context.Context, contactID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.addresses[id]
	if !ok || a.ContactID != contactID {
		return common.ErrorNotFound
	}
	delete(r.s.addresses, id)
	return nil
}

func (r *addressRepo) ListByContact(_ context.Context, contactID int64) ([]*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []*models.Address{}
	for _, a := range r.s.addresses {
		if a.ContactID == contactID {
			a := a
			result = append(result, &a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
