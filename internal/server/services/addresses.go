package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/validation"
)

const (
	maxStreetLength     = 200
	maxCityLength       = 100
	maxProvinceLength   = 100
	maxCountryLength    = 100
	maxPostalCodeLength = 10
)

// AddressInput holds the writable address fields. Country is required.
type AddressInput struct {
	Street     *string
	City       *string
	Province   *string
	Country    string
	PostalCode *string
}

// AddressService manages addresses. Every call first resolves the contact
// against its owner, so a foreign or missing contact is common.ErrorNotFound.
type AddressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAddressService constructs an AddressService.
func NewAddressService(db *sql.DB, m repomanager.RepositoryManager) *AddressService {
	return &AddressService{db: db, repomanager: m}
}

func (in AddressInput) normalize() AddressInput {
	return AddressInput{
		Street:     validation.Normalize(in.Street),
		City:       validation.Normalize(in.City),
		Province:   validation.Normalize(in.Province),
		Country:    strings.TrimSpace(in.Country),
		PostalCode: validation.Normalize(in.PostalCode),
	}
}

func (in AddressInput) validate() error {
	var v validation.Errors
	v.OptionalMaxLength("street", in.Street, maxStreetLength)
	v.OptionalMaxLength("city", in.City, maxCityLength)
	v.OptionalMaxLength("province", in.Province, maxProvinceLength)
	if v.Required("country", in.Country) {
		v.MaxLength("country", in.Country, maxCountryLength)
	}
	v.OptionalMaxLength("postal_code", in.PostalCode, maxPostalCodeLength)
	return v.Err()
}

func (in AddressInput) apply(a *models.Address) {
	a.Street = in.Street
	a.City = in.City
	a.Province = in.Province
	a.Country = in.Country
	a.PostalCode = in.PostalCode
}

// Create adds an address to the contact, locking the contact row for the
// duration of the write.
func (s *AddressService) Create(ctx context.Context, userID, contactID int64, in AddressInput) (*models.Address, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var address *models.Address

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Contacts(tx).GetForUpdate(ctx, userID, contactID); err != nil {
			return err
		}

		a := &models.Address{ContactID: contactID}
		in.apply(a)

		var err error
		address, err = s.repomanager.Addresses(tx).Create(ctx, a)
		if err != nil {
			return fmt.Errorf("error creating address: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return address, nil
}

// Get returns one address of the contact.
func (s *AddressService) Get(ctx context.Context, userID, contactID, addressID int64) (*models.Address, error) {
	if _, err := s.repomanager.Contacts(s.db).Get(ctx, userID, contactID); err != nil {
		return nil, err
	}
	return s.repomanager.Addresses(s.db).Get(ctx, contactID, addressID)
}

// Update replaces the address fields.
func (s *AddressService) Update(ctx context.Context, userID, contactID, addressID int64, in AddressInput) (*models.Address, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var address *models.Address

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Contacts(tx).GetForUpdate(ctx, userID, contactID); err != nil {
			return err
		}

		repo := s.repomanager.Addresses(tx)

		var err error
		address, err = repo.GetForUpdate(ctx, contactID, addressID)
		if err != nil {
			return err
		}

		in.apply(address)
		return repo.Update(ctx, address)
	})

	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete removes one address of the contact.
func (s *AddressService) Delete(ctx context.Context, userID, contactID, addressID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Contacts(tx).GetForUpdate(ctx, userID, contactID); err != nil {
			return err
		}
		return s.repomanager.Addresses(tx).Delete(ctx, contactID, addressID)
	})
}

// List returns the contact's addresses in creation order.
func (s *AddressService) List(ctx context.Context, userID, contactID int64) ([]*models.Address, error) {
	var list []*models.Address

	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Contacts(tx).Get(ctx, userID, contactID); err != nil {
			return err
		}

		var err error
		list, err = s.repomanager.Addresses(tx).ListByContact(ctx, contactID)
		return err
	})

	if err != nil {
		return nil, err
	}
	return list, nil
}
