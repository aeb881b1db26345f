// Package models defines the core data structures for the authentication
// state persisted in a client's storage partition.
package models

// Storage keys owned by the auth module. They are namespaced by the
// storage adapter's prefix before reaching the backend.
const (
	// AuthKey holds the authentication flag.
	AuthKey = "auth"
	// UserKey holds the logged-in user's profile.
	UserKey = "user"
)

// Credentials is the email/password pair submitted by the login form.
type Credentials struct {
	// Email is compared verbatim, without normalization.
	Email string
	// Password is compared verbatim, without hashing.
	Password string
}

// AuthFlag is the value persisted under AuthKey.
type AuthFlag struct {
	// IsAuthenticated must be exactly true for the client to count as logged in.
	IsAuthenticated bool `json:"isAuthenticated"`
}

// Profile is the value persisted under UserKey.
type Profile struct {
	// Email is the address the user logged in with.
	Email string `json:"email"`
	// Username is the display name shown on the welcome page.
	Username string `json:"username"`
	// LoginTime is the login instant in ISO-8601 (UTC, millisecond precision).
	LoginTime string `json:"loginTime"`
}

// LoginResult is the outcome of a login attempt.
type LoginResult struct {
	// Success reports whether the credentials matched and state was persisted.
	Success bool `json:"success"`
	// Message is a user-facing description of the outcome.
	Message string `json:"message"`
	// User is set only on success.
	User *Profile `json:"user,omitempty"`
}
