package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/shared"
)

const bearerPrefix = "Bearer "

// Authenticator resolves a session token to a username.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Identity is the authenticated caller attached to the request context by [RequireAuth].
type Identity struct {
	Username string
	Token    string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by [RequireAuth].
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RequireAuth rejects requests whose bearer token does not resolve.
//
// A missing header, another scheme or an unknown token all answer 401 {"error":"Unauthorized"}.
func RequireAuth(auth Authenticator, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			username, err := auth.Authenticate(r.Context(), token)
			if errors.Is(err, shared.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if err != nil {
				writeServiceError(logger, w, r, err)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{Username: username, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
