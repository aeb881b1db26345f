// Package http provides the HTTP handlers serving the login and welcome
// pages on top of the ui controllers.
package http

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/atinyakov/GophLogin/internal/middleware"
	"github.com/atinyakov/GophLogin/internal/service"
	"github.com/atinyakov/GophLogin/internal/storage"
	"github.com/atinyakov/GophLogin/internal/ui"
	"github.com/atinyakov/GophLogin/internal/validator"
	"go.uber.org/zap"
)

// PageHandler serves the login and welcome pages. Each request works on the
// storage partition of the client identified by middleware.ClientID.
type PageHandler struct {
	// Provider opens a client's storage partition.
	Provider storage.Provider
	// Checker validates credentials; nil means service.TestAccount.
	Checker service.CredentialChecker
	// Prefix namespaces storage keys; empty means storage.DefaultPrefix.
	Prefix string
	// Location is the zone login times are displayed in.
	Location *time.Location
	// Logger receives storage and rendering failures.
	Logger *zap.Logger
}

func (h *PageHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// auth builds the auth service over the requesting client's partition.
func (h *PageHandler) auth(r *http.Request) (*service.AuthService, bool) {
	clientID := middleware.GetClientIDFromContext(r.Context())
	store, err := h.Provider.Open(clientID)
	if err != nil {
		h.logger().Error("failed to open client storage", zap.String("client", clientID), zap.Error(err))
		return nil, false
	}
	log := h.logger().With(zap.String("client", clientID))
	st := storage.New(store, log, storage.WithPrefix(h.Prefix))
	return service.NewAuthService(st, h.Checker, service.WithLogger(log)), true
}

// LoginPage handles GET / and GET /index.html.
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.auth(r)
	if !ok {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	c := &ui.LoginController{Auth: auth}
	if to := c.Load(r.Context()); to != "" {
		http.Redirect(w, r, to, http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, tplLogin, loginPage{})
}

// Login handles POST /login.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	auth, ok := h.auth(r)
	if !ok {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	c := &ui.LoginController{Auth: auth}
	out := c.Submit(r.Context(), validator.LoginForm{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if out.Redirect != "" {
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
		return
	}

	h.render(w, http.StatusUnprocessableEntity, tplLogin, loginPage{
		Email:         out.Form.Email,
		EmailError:    out.Errors[validator.FieldEmail],
		PasswordError: out.Errors[validator.FieldPassword],
	})
}

// WelcomePage handles GET /welcome.html.
func (h *PageHandler) WelcomePage(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.auth(r)
	if !ok {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	c := &ui.WelcomeController{Auth: auth, Location: h.Location}
	out := c.Load(r.Context())
	if out.Redirect != "" {
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, tplWelcome, out.View)
}

// Logout handles POST /logout.
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth, ok := h.auth(r)
	if !ok {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	c := &ui.WelcomeController{Auth: auth, Location: h.Location}
	to := c.Logout(r.Context())
	if to == "" {
		to = ui.WelcomePath
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// render executes tpl into a buffer first so a template failure can still
// produce a clean 500.
func (h *PageHandler) render(w http.ResponseWriter, status int, tpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		h.logger().Error("failed to render page", zap.String("template", tpl.Name()), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
