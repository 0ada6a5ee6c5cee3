// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account owning contacts. Token is nil while logged out.
type User struct {
	ID           int64
	UserName     string
	Name         string
	PasswordHash string
	Token        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
