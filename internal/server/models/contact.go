package models

import "time"

// Contact is a person known to its owning user. Only FirstName is required;
// the optional fields are nil when unset.
type Contact struct {
	ID        int64
	UserID    int64
	FirstName string
	LastName  *string
	Email     *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactFilter narrows a contact search. Empty strings impose no
// restriction. Offset and Limit are derived from page and size by the caller.
type ContactFilter struct {
	Name   string
	Email  string
	Phone  string
	Offset int
	Limit  int
}
