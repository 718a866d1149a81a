package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jsw-dev/portfolio-server/internal/apperr"
	"github.com/jsw-dev/portfolio-server/token"
	"github.com/jsw-dev/portfolio-server/users"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Principal identifies the authenticated caller for the lifetime of a
// single request. It is carried on the request context, never in
// package state.
type Principal struct {
	Email string
	Role  users.Role
}

// PrincipalFrom returns the authenticated caller, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// accessToken pulls the raw access token off the request. The frontend
// sends it back in the "access" header, mirroring how it was issued;
// Authorization: Bearer is accepted as a fallback for API clients.
func accessToken(r *http.Request) string {
	if raw := r.Header.Get(accessHeaderName); raw != "" {
		return raw
	}
	if bearer := r.Header.Get("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
		return strings.TrimPrefix(bearer, "Bearer ")
	}
	return ""
}

// Authenticate decodes the access token when one is present and stores
// the resulting Principal on the request context. Requests without a
// token pass through anonymously; RequirePrincipal rejects those on
// routes that need a caller.
func (s *Server) Authenticate() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := accessToken(r)
			if raw == "" {
				next(w, r)
				return
			}

			result := s.codec.Decode(raw)
			switch result.Status {
			case token.StatusExpired:
				writeError(w, apperr.New("TOKEN_EXPIRED", http.StatusUnauthorized, "access token expired"))
				return
			case token.StatusInvalid:
				writeError(w, apperr.New("INVALID_TOKEN", http.StatusUnauthorized, "invalid access token"))
				return
			}

			if result.Claims.Category != token.CategoryAccess {
				writeError(w, apperr.New("INVALID_TOKEN", http.StatusUnauthorized, "invalid access token"))
				return
			}

			role, err := users.ParseRole(result.Claims.Role)
			if err != nil {
				writeError(w, apperr.New("INVALID_TOKEN", http.StatusUnauthorized, "invalid access token"))
				return
			}

			principal := Principal{Email: result.Claims.Subject, Role: role}
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequirePrincipal rejects requests that did not authenticate.
func (s *Server) RequirePrincipal() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFrom(r.Context()); !ok {
				writeError(w, apperr.ErrUnauthorized)
				return
			}
			next(w, r)
		}
	}
}
