package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

type contactRequest struct {
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

func (req contactRequest) input() services.ContactInput {
	return services.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
}

func (s *HTTPServer) createContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	contact, err := s.contacts.Create(r.Context(), currentUser(r).ID, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, newContactResource(contact))
}

func (s *HTTPServer) getContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "contactID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contact, err := s.contacts.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, newContactResource(contact))
}

func (s *HTTPServer) updateContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "contactID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req contactRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	contact, err := s.contacts.Update(r.Context(), currentUser(r).ID, id, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, newContactResource(contact))
}

func (s *HTTPServer) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "contactID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.contacts.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, true)
}

// searchContacts reads filters and pagination from the query string.
// Non-numeric page or size values fall back to the defaults.
func (s *HTTPServer) searchContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	result, err := s.contacts.Search(r.Context(), currentUser(r).ID, services.SearchInput{
		Name:  q.Get("name"),
		Email: q.Get("email"),
		Phone: q.Get("phone"),
		Page:  page,
		Size:  size,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newContactPage(result))
}
