package http

import (
	"net/http"

	"github.com/atinyakov/GophLogin/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the login
// and welcome pages.
//
// Routes:
//
//	GET  /              → pages.LoginPage
//	GET  /index.html    → pages.LoginPage
//	POST /login         → pages.Login
//	GET  /welcome.html  → pages.WelcomePage
//	POST /logout        → pages.Logout
//	GET  /healthz       → Health
//
// Middleware chain (applied in order):
//  1. RequestID                  — tags each request for the log
//  2. Recoverer                  — turns panics into 500s
//  3. WithRequestLogging(logger) — logs incoming requests
//  4. ClientID                   — selects the client's storage partition
func NewRouter(pages *PageHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/healthz", Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ClientID)

		r.Get("/", pages.LoginPage)
		r.Get("/index.html", pages.LoginPage)
		r.Post("/login", pages.Login)
		r.Get("/welcome.html", pages.WelcomePage)
		r.Post("/logout", pages.Logout)
	})

	return r
}
