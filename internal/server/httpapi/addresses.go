package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

type addressRequest struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	Country    string  `json:"country"`
	PostalCode *string `json:"postal_code"`
}

func (req addressRequest) input() services.AddressInput {
	return services.AddressInput{
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
}

// addressPath parses {contactID} and, when withAddress is set, {addressID}.
func addressPath(r *http.Request, withAddress bool) (contactID, addressID int64, err error) {
	if contactID, err = pathID(r, "contactID"); err != nil {
		return 0, 0, err
	}
	if withAddress {
		if addressID, err = pathID(r, "addressID"); err != nil {
			return 0, 0, err
		}
	}
	return contactID, addressID, nil
}

func (s *HTTPServer) createAddress(w http.ResponseWriter, r *http.Request) {
	contactID, _, err := addressPath(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req addressRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	address, err := s.addresses.Create(r.Context(), currentUser(r).ID, contactID, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, newAddressResource(address))
}

func (s *HTTPServer) listAddresses(w http.ResponseWriter, r *http.Request) {
	contactID, _, err := addressPath(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.addresses.List(r.Context(), currentUser(r).ID, contactID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, newAddressResources(list))
}

func (s *HTTPServer) getAddress(w http.ResponseWriter, r *http.Request) {
	contactID, addressID, err := addressPath(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	address, err := s.addresses.Get(r.Context(), currentUser(r).ID, contactID, addressID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, newAddressResource(address))
}

func (s *HTTPServer) updateAddress(w http.ResponseWriter, r *http.Request) {
	contactID, addressID, err := addressPath(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req addressRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	address, err := s.addresses.Update(r.Context(), currentUser(r).ID, contactID, addressID, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, newAddressResource(address))
}

func (s *HTTPServer) deleteAddress(w http.ResponseWriter, r *http.Request) {
	contactID, addressID, err := addressPath(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.addresses.Delete(r.Context(), currentUser(r).ID, contactID, addressID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, true)
}
