// internal/app/system/inputval/inputval.go
//
// Package inputval collects per-field validation problems for form handlers.
package inputval

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// FieldError is one problem with one form field.
type FieldError struct {
	Field   string
	Message string
}

// Errors accumulates field problems in the order they were found.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, " ")
}

// Has reports whether field has a problem.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Required records a problem when v is empty.
func (e *Errors) Required(field, label, v string) {
	if v == "" {
		*e = append(*e, FieldError{Field: field, Message: label + " is required."})
	}
}

// MaxLen records a problem when v is longer than n characters.
func (e *Errors) MaxLen(field, label, v string, n int) {
	if utf8.RuneCountInString(v) > n {
		*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf("%s must be %d characters or fewer.", label, n)})
	}
}

// IsValidEmail accepts a bare address (no display name) with a non-empty
// local part and domain and no leading, trailing, or doubled dots.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}
