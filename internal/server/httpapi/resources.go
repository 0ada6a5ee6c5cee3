package httpapi

import "github.com/dmitrijs2005/contactbook/internal/server/models"

type userResource struct {
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Token    *string `json:"token,omitempty"`
}

// newUserResource never carries the token; login adds it explicitly.
func newUserResource(u *models.User) userResource {
	return userResource{Username: u.UserName, Name: u.Name}
}

type contactResource struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

func newContactResource(c *models.Contact) contactResource {
	return contactResource{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

type pageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

type contactPage struct {
	Data []contactResource `json:"data"`
	Meta pageMeta          `json:"meta"`
}

func newContactPage(p *models.Page[*models.Contact]) contactPage {
	data := make([]contactResource, 0, len(p.Items))
	for _, c := range p.Items {
		data = append(data, newContactResource(c))
	}
	return contactPage{
		Data: data,
		Meta: pageMeta{
			CurrentPage: p.CurrentPage,
			PerPage:     p.PerPage,
			Total:       p.Total,
			TotalPages:  p.TotalPages,
		},
	}
}

type addressResource struct {
	ID         int64   `json:"id"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	Country    string  `json:"country"`
	PostalCode *string `json:"postal_code"`
}

func newAddressResource(a *models.Address) addressResource {
	return addressResource{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

func newAddressResources(list []*models.Address) []addressResource {
	out := make([]addressResource, 0, len(list))
	for _, a := range list {
		out = append(out, newAddressResource(a))
	}
	return out
}
