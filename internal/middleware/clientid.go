// Package middleware provides HTTP middlewares for client identification and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const clientKey ctxKey = "client"

// ClientCookie names the cookie identifying a browser's storage partition.
const ClientCookie = "authdemo_client"

// ClientID is a middleware that gives every browser a stable client ID.
//
// The ID plays the part of a browser profile: it selects which storage
// partition the request reads and writes. It carries no authentication
// state. A missing or malformed cookie is replaced with a fresh random UUID.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(ClientCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   400 * 24 * 60 * 60,
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), clientKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIDFromContext extracts the client ID stored by ClientID.
// Returns an empty string if not found.
func GetClientIDFromContext(ctx context.Context) string {
	val := ctx.Value(clientKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
