// Package service provides the authentication state logic, delegating
// credential checks to a CredentialChecker and persistence to a
// namespaced storage adapter.
package service

import (
	"context"
	"time"

	"github.com/atinyakov/GophLogin/internal/models"
	"github.com/atinyakov/GophLogin/internal/storage"
	"go.uber.org/zap"
)

// User-facing login messages.
const (
	MsgLoginSuccess       = "Login successful"
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginNotSaved      = "Login could not be saved, please try again"
)

// isoMillis matches the ISO-8601 form browsers produce for Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// CredentialChecker decides whether a credential pair may log in and, if so,
// which display name the resulting profile carries.
type CredentialChecker interface {
	// Check reports whether creds are accepted and the username to store.
	Check(ctx context.Context, creds models.Credentials) (username string, ok bool)
}

// StaticCredentials accepts exactly one email/password pair.
type StaticCredentials struct {
	Email    string
	Password string
	Username string
}

// TestAccount is the single account known to the demo.
var TestAccount = StaticCredentials{
	Email:    "test@example.com",
	Password: "123456",
	Username: "Test User",
}

// Check compares both fields for exact equality. The result does not say
// which field was wrong.
func (c StaticCredentials) Check(_ context.Context, creds models.Credentials) (string, bool) {
	if creds.Email == c.Email && creds.Password == c.Password {
		return c.Username, true
	}
	return "", false
}

// AuthService tracks whether a client is logged in using its storage partition.
type AuthService struct {
	// store persists the flag and profile.
	store *storage.Storage
	// checker validates submitted credentials.
	checker CredentialChecker
	now     func() time.Time
	log     *zap.Logger
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now, used to stamp profiles.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithLogger sets the logger used for inconsistent-state warnings.
func WithLogger(log *zap.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

// NewAuthService constructs an AuthService. A nil checker falls back to TestAccount.
func NewAuthService(store *storage.Storage, checker CredentialChecker, opts ...AuthOption) *AuthService {
	if checker == nil {
		checker = TestAccount
	}
	s := &AuthService{
		store:   store,
		checker: checker,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credentials and, on a match, persists the authentication
// flag together with a freshly stamped profile. If either write fails both
// keys are removed so the flag never outlives its profile.
func (s *AuthService) Login(ctx context.Context, email, password string) models.LoginResult {
	username, ok := s.checker.Check(ctx, models.Credentials{Email: email, Password: password})
	if !ok {
		return models.LoginResult{Message: MsgInvalidCredentials}
	}

	user := &models.Profile{
		Email:     email,
		Username:  username,
		LoginTime: s.now().UTC().Format(isoMillis),
	}

	if !s.store.Save(ctx, models.UserKey, user) ||
		!s.store.Save(ctx, models.AuthKey, models.AuthFlag{IsAuthenticated: true}) {
		s.clear(ctx)
		return models.LoginResult{Message: MsgLoginNotSaved}
	}

	return models.LoginResult{Success: true, Message: MsgLoginSuccess, User: user}
}

// Logout removes the flag and profile. It always reports success, including
// when nobody was logged in.
func (s *AuthService) Logout(ctx context.Context) bool {
	s.clear(ctx)
	return true
}

// IsAuthenticated reports whether the stored flag is present and true.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	var flag models.AuthFlag
	if !s.store.Get(ctx, models.AuthKey, &flag) {
		return false
	}
	return flag.IsAuthenticated
}

// CurrentUser returns the stored profile, or nil when not authenticated.
// A flag without a readable profile is treated as logged out.
func (s *AuthService) CurrentUser(ctx context.Context) *models.Profile {
	if !s.IsAuthenticated(ctx) {
		return nil
	}
	var user models.Profile
	if !s.store.Get(ctx, models.UserKey, &user) {
		s.log.Warn("authentication flag set without a user profile")
		return nil
	}
	return &user
}

func (s *AuthService) clear(ctx context.Context) {
	s.store.Remove(ctx, models.AuthKey)
	s.store.Remove(ctx, models.UserKey)
}
