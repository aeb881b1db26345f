// Package validator checks login form fields before any credential check.
package validator

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, counted in runes
// (Unicode code points). A character outside the Basic Multilingual Plane
// counts once, where a browser's UTF-16 string length would count it twice.
const MinPasswordLength = 6

// Field names used as keys in FormResult.Errors.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// User-facing messages.
const (
	MsgEmailRequired    = "Email is required"
	MsgEmailFormat      = "Email format is invalid"
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be at least 6 characters"
)

// emailPattern rejects any whitespace, including vertical tab, Unicode
// separators (NBSP, em space, line/paragraph separators) and the BOM.
var emailPattern = regexp.MustCompile(`^[^\s\x0B\p{Z}\x{FEFF}@]+@[^\s\x0B\p{Z}\x{FEFF}@]+\.[^\s\x0B\p{Z}\x{FEFF}@]+$`)

// isBlank reports whether s is empty or only whitespace, BOM included.
func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	}) == ""
}

// Result is the outcome of validating a single field.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// LoginForm is the raw login form input.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FormResult aggregates per-field results. Errors maps field name to message
// and only contains failing fields.
type FormResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ValidateEmail requires a non-blank local@domain.tld shaped address.
func ValidateEmail(email string) Result {
	if isBlank(email) {
		return Result{Message: MsgEmailRequired}
	}
	if !emailPattern.MatchString(email) {
		return Result{Message: MsgEmailFormat}
	}
	return Result{Valid: true}
}

// ValidatePassword requires a non-blank password of at least MinPasswordLength runes.
func ValidatePassword(password string) Result {
	if isBlank(password) {
		return Result{Message: MsgPasswordRequired}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Result{Message: MsgPasswordTooShort}
	}
	return Result{Valid: true}
}

// ValidateLoginForm runs every field check, without stopping at the first failure.
func ValidateLoginForm(form LoginForm) FormResult {
	res := FormResult{Valid: true, Errors: make(map[string]string)}

	if r := ValidateEmail(form.Email); !r.Valid {
		res.Errors[FieldEmail] = r.Message
		res.Valid = false
	}
	if r := ValidatePassword(form.Password); !r.Valid {
		res.Errors[FieldPassword] = r.Message
		res.Valid = false
	}

	return res
}
