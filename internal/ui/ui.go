// Package ui holds the page controllers of the login and welcome pages.
// Controllers map user actions to auth calls and return what the page should
// do next; rendering is left to the caller (HTML templates or a terminal).
package ui

import (
	"context"
	"time"

	"github.com/atinyakov/GophLogin/internal/models"
	"github.com/atinyakov/GophLogin/internal/validator"
)

// Page locations. Navigation between them is a full page change.
const (
	LoginPath   = "/index.html"
	WelcomePath = "/welcome.html"
)

// DateTimeLayout is how login times are displayed.
const DateTimeLayout = "2006-01-02 15:04:05"

// Auth is the part of the auth service the controllers need.
type Auth interface {
	Login(ctx context.Context, email, password string) models.LoginResult
	Logout(ctx context.Context) bool
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) *models.Profile
}

// LoginOutcome tells the login page what to do after a submit.
type LoginOutcome struct {
	// Redirect is non-empty when the page should navigate away.
	Redirect string
	// Errors maps field name to the message shown under that field.
	Errors map[string]string
	// Form echoes the submitted email so the page can refill it.
	Form validator.LoginForm
}

// LoginController drives the login page.
type LoginController struct {
	Auth Auth
}

// Load returns the welcome path when the client is already logged in.
func (c *LoginController) Load(ctx context.Context) string {
	if c.Auth.IsAuthenticated(ctx) {
		return WelcomePath
	}
	return ""
}

// Submit validates the form and attempts a login. Field errors from
// validation are returned without touching auth state; a rejected login is
// reported once, under the password field.
func (c *LoginController) Submit(ctx context.Context, form validator.LoginForm) LoginOutcome {
	out := LoginOutcome{
		Errors: map[string]string{},
		Form:   validator.LoginForm{Email: form.Email},
	}

	if v := validator.ValidateLoginForm(form); !v.Valid {
		out.Errors = v.Errors
		return out
	}

	res := c.Auth.Login(ctx, form.Email, form.Password)
	if !res.Success {
		out.Errors[validator.FieldPassword] = res.Message
		return out
	}

	out.Redirect = WelcomePath
	return out
}

// WelcomeView is the data displayed on the welcome page.
type WelcomeView struct {
	Username  string
	Email     string
	LoginTime string
}

// WelcomeOutcome is either a redirect or a view.
type WelcomeOutcome struct {
	Redirect string
	View     WelcomeView
}

// WelcomeController drives the welcome page.
type WelcomeController struct {
	Auth Auth
	// Location is the zone login times are shown in; nil means time.Local.
	Location *time.Location
}

// Load sends unauthenticated clients to the login page. A client whose flag
// is set but whose profile cannot be read is logged out first, otherwise the
// login page would bounce it straight back here.
func (c *WelcomeController) Load(ctx context.Context) WelcomeOutcome {
	if !c.Auth.IsAuthenticated(ctx) {
		return WelcomeOutcome{Redirect: LoginPath}
	}

	user := c.Auth.CurrentUser(ctx)
	if user == nil {
		c.Auth.Logout(ctx)
		return WelcomeOutcome{Redirect: LoginPath}
	}

	return WelcomeOutcome{View: WelcomeView{
		Username:  user.Username,
		Email:     user.Email,
		LoginTime: FormatDateTime(user.LoginTime, c.Location),
	}}
}

// Logout clears the auth state and returns where to go next.
func (c *WelcomeController) Logout(ctx context.Context) string {
	if c.Auth.Logout(ctx) {
		return LoginPath
	}
	return ""
}

// FormatDateTime renders an ISO-8601 timestamp as YYYY-MM-DD HH:MM:SS in loc.
// Unparseable input is returned unchanged.
func FormatDateTime(iso string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return iso
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateTimeLayout)
}
