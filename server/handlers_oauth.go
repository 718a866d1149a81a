package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/jsw-dev/portfolio-server/internal/apperr"
	"github.com/jsw-dev/portfolio-server/internal/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

// GoogleOAuth wraps the OAuth2 flow and ID-token verification for
// Google social login.
type GoogleOAuth struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// NewGoogleOAuth discovers Google's OIDC endpoints. Returns an error
// when the client credentials are not configured; the server treats
// that as social login being disabled.
func NewGoogleOAuth(ctx context.Context, cfg config.OAuthConfig) (*GoogleOAuth, error) {
	clientID := cfg.GetGoogleClientID()
	clientSecret := cfg.GetGoogleClientSecret()
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("[NewGoogleOAuth] client credentials not configured")
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("[NewGoogleOAuth] provider discovery: %w", err)
	}

	return &GoogleOAuth{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  cfg.GetGoogleRedirectURL(),
			Endpoint:     google.Endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// GoogleRedirectHandler starts the authorization-code flow. The state
// value is pinned in a short-lived cookie and checked on callback.
func (s *Server) GoogleRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.google == nil {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("social login is not configured"))
			return
		}

		state := uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   300,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, s.google.oauthConfig.AuthCodeURL(state), http.StatusFound)
	}
}

// GoogleCallbackHandler finishes the flow: exchanges the code, verifies
// the ID token, provisions or loads the local account, then hands both
// tokens to the browser as cookies and redirects to the frontend.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.google == nil {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("social login is not configured"))
			return
		}

		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("oauth state mismatch"))
			return
		}
		http.SetCookie(w, clearedCookie(stateCookieName))

		code := r.URL.Query().Get("code")
		if code == "" {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("authorization code missing"))
			return
		}

		oauthToken, err := s.google.oauthConfig.Exchange(r.Context(), code)
		if err != nil {
			log.Err(err).Msg("Google code exchange failed")
			writeError(w, apperr.ErrUnauthorized.WithMessage("social login failed"))
			return
		}

		rawIDToken, ok := oauthToken.Extra("id_token").(string)
		if !ok {
			writeError(w, apperr.ErrUnauthorized.WithMessage("social login failed"))
			return
		}

		idToken, err := s.google.verifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			log.Err(err).Msg("Google ID token verification failed")
			writeError(w, apperr.ErrUnauthorized.WithMessage("social login failed"))
			return
		}

		var claims struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := idToken.Claims(&claims); err != nil || claims.Email == "" {
			writeError(w, apperr.ErrUnauthorized.WithMessage("social login failed"))
			return
		}

		_, pair, err := s.auth.OAuthLogin(r.Context(), claims.Email, claims.Name)
		if err != nil {
			writeError(w, err)
			return
		}

		// A redirect cannot carry a response header the frontend will
		// see, so the access token rides a short-lived cookie the
		// post-login page reads once and discards.
		http.SetCookie(w, &http.Cookie{
			Name:     accessCookieName,
			Value:    pair.Access,
			Path:     "/",
			MaxAge:   int(s.config.GetAccessTokenExpiry().Seconds()),
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
		http.SetCookie(w, s.refreshCookie(pair.Refresh))

		http.Redirect(w, r, s.config.GetPostLoginRedirectURL(), http.StatusFound)
	}
}
