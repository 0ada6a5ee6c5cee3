// Package validation implements explicit field validation for service
// inputs. Checks accumulate into Errors, an ordered list of field/message
// pairs that is itself an error once non-empty.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/contactbook/internal/common"
)

// FieldError is a single failed check on a named input field.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects FieldErrors in the order the checks ran.
// The zero value is ready to use.
type Errors struct {
	fields []FieldError
	cause  error
}

// Add records a failure for field.
func (e *Errors) Add(field, message string) {
	e.fields = append(e.fields, FieldError{Field: field, Message: message})
}

// Required fails when value is blank.
func (e *Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, fmt.Sprintf("The %s field is required.", label(field)))
		return false
	}
	return true
}

// MaxLength fails when value has more than max characters.
func (e *Errors) MaxLength(field, value string, max int) bool {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", label(field), max))
		return false
	}
	return true
}

// OptionalMaxLength runs MaxLength when value is set.
func (e *Errors) OptionalMaxLength(field string, value *string, max int) bool {
	if value == nil {
		return true
	}
	return e.MaxLength(field, *value, max)
}

// Email fails when value is set but is not a bare e-mail address.
func (e *Errors) Email(field string, value *string) bool {
	if value == nil || IsEmail(*value) {
		return true
	}
	e.Add(field, fmt.Sprintf("The %s field must be a valid email address.", label(field)))
	return false
}

// Fields returns the recorded failures in order.
func (e *Errors) Fields() []FieldError {
	return e.fields
}

// Map groups messages by field, the shape used by the HTTP error envelope.
func (e *Errors) Map() map[string][]string {
	m := make(map[string][]string, len(e.fields))
	for _, f := range e.fields {
		m[f.Field] = append(m[f.Field], f.Message)
	}
	return m
}

// Err returns e as an error, or nil when no check failed.
func (e *Errors) Err() error {
	if len(e.fields) == 0 {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(err, common.ErrorValidation) hold for every
// Errors value, and errors.Is(err, cause) for conflicts.
func (e *Errors) Unwrap() []error {
	if e.cause != nil {
		return []error{common.ErrorValidation, e.cause}
	}
	return []error{common.ErrorValidation}
}

// Conflict reports a uniqueness violation on field. It is rendered like any
// other field error and also matches common.ErrorAlreadyExists.
func Conflict(field, message string) error {
	e := &Errors{cause: common.ErrorAlreadyExists}
	e.Add(field, message)
	return e
}

// As extracts *Errors from err.
func As(err error) (*Errors, bool) {
	var e *Errors
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsEmail reports whether s is a plain address such as "user@example.com",
// without display name or angle brackets.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && at < len(s)-1
}

// Normalize trims an optional value and turns blank input into nil.
func Normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
