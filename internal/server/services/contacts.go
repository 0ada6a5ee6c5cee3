package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/validation"
)

const (
	maxFirstNameLength = 100
	maxLastNameLength  = 100
	maxEmailLength     = 200
	maxPhoneLength     = 20

	defaultPage        = 1
	defaultPageSize    = 10
	defaultMaxPageSize = 100
)

// ContactInput holds the writable contact fields. Create and Update both
// replace every field.
type ContactInput struct {
	FirstName string
	LastName  *string
	Email     *string
	Phone     *string
}

// SearchInput filters and paginates a contact search. Empty filters are
// ignored; Page and Size below 1 fall back to their defaults.
type SearchInput struct {
	Name  string
	Email string
	Phone string
	Page  int
	Size  int
}

// ContactService manages the contacts of a single owner per call.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	maxPageSize int
}

// NewContactService constructs a ContactService. cfg.MaxPageSize caps the
// search page size.
func NewContactService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ContactService {
	maxPageSize := cfg.MaxPageSize
	if maxPageSize < 1 {
		maxPageSize = defaultMaxPageSize
	}
	return &ContactService{db: db, repomanager: m, maxPageSize: maxPageSize}
}

// normalize trims every field and drops blank optional ones.
func (in ContactInput) normalize() ContactInput {
	return ContactInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  validation.Normalize(in.LastName),
		Email:     validation.Normalize(in.Email),
		Phone:     validation.Normalize(in.Phone),
	}
}

func (in ContactInput) validate() error {
	var v validation.Errors
	if v.Required("first_name", in.FirstName) {
		v.MaxLength("first_name", in.FirstName, maxFirstNameLength)
	}
	v.OptionalMaxLength("last_name", in.LastName, maxLastNameLength)
	if v.OptionalMaxLength("email", in.Email, maxEmailLength) {
		v.Email("email", in.Email)
	}
	v.OptionalMaxLength("phone", in.Phone, maxPhoneLength)
	return v.Err()
}

func (in ContactInput) apply(c *models.Contact) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
}

// Create validates in and stores a new contact owned by userID.
func (s *ContactService) Create(ctx context.Context, userID int64, in ContactInput) (*models.Contact, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	contact := &models.Contact{UserID: userID}
	in.apply(contact)

	contact, err := s.repomanager.Contacts(s.db).Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}
	return contact, nil
}

// Get returns the contact only if userID owns it; otherwise
// common.ErrorNotFound, whether or not the id exists.
func (s *ContactService) Get(ctx context.Context, userID, contactID int64) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).Get(ctx, userID, contactID)
}

// Update replaces the contact's fields. The row is locked while ownership
// is checked and the update is written.
func (s *ContactService) Update(ctx context.Context, userID, contactID int64, in ContactInput) (*models.Contact, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var contact *models.Contact

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		var err error
		contact, err = repo.GetForUpdate(ctx, userID, contactID)
		if err != nil {
			return err
		}

		in.apply(contact)
		return repo.Update(ctx, contact)
	})

	if err != nil {
		return nil, err
	}
	return contact, nil
}

// Delete removes the contact and, through the foreign key, its addresses.
func (s *ContactService) Delete(ctx context.Context, userID, contactID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		if _, err := repo.GetForUpdate(ctx, userID, contactID); err != nil {
			return err
		}
		return repo.Delete(ctx, userID, contactID)
	})
}

// Search returns one page of the user's contacts. The count and the page
// are read from the same snapshot so the meta always matches the items.
func (s *ContactService) Search(ctx context.Context, userID int64, in SearchInput) (*models.Page[*models.Contact], error) {
	page, size := s.pageBounds(in.Page, in.Size)

	filter := models.ContactFilter{
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Phone:  strings.TrimSpace(in.Phone),
		Offset: pageOffset(page, size),
		Limit:  size,
	}

	var (
		items []*models.Contact
		total int64
	)

	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		items, total, err = s.repomanager.Contacts(tx).Search(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error searching contacts: %w", err)
	}

	return models.NewPage(items, page, size, total), nil
}

func (s *ContactService) pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	return page, size
}

// pageOffset returns the number of rows before page. Pages too far out to
// address without overflow start past any possible row.
func pageOffset(page, size int) int {
	if page > math.MaxInt/size {
		return math.MaxInt - size
	}
	return (page - 1) * size
}
