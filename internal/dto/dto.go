package dto

import (
	"time"
	"unicode"
)

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// FieldErrors maps a request field to the reason it was rejected
type FieldErrors map[string]string

// Add records reason for field, keeping the first reason per field
func (e FieldErrors) Add(field, reason string) {
	if _, ok := e[field]; !ok {
		e[field] = reason
	}
}

// OrNil returns nil when no errors were recorded
func (e FieldErrors) OrNil() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Pagination holds page/limit query parameters
type Pagination struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// SetDefaults sets default values for pagination
func (p *Pagination) SetDefaults() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset returns the row offset for the current page
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// validatePassword enforces at least 8 characters with a letter and a digit
func validatePassword(errs FieldErrors, field, password string) {
	if len(password) < 8 {
		errs.Add(field, "password must be at least 8 characters")
		return
	}
	if len(password) > 72 {
		errs.Add(field, "password must be at most 72 bytes")
		return
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		errs.Add(field, "password must contain a letter and a digit")
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
