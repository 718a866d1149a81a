package server

import (
	"net/http"

	"github.com/jsw-dev/portfolio-server/internal/apperr"
)

// refreshCookie builds the http-only cookie carrying the refresh token.
func (s *Server) refreshCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.config.GetRefreshTokenExpiry().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// refreshTokenFrom reads the refresh cookie off the request. The two
// failure modes are reported distinctly so a client can tell a stripped
// cookie jar apart from a missing refresh cookie.
func refreshTokenFrom(r *http.Request) (string, error) {
	if len(r.Cookies()) == 0 {
		return "", apperr.ErrInvalidToken.WithMessage("no cookies found")
	}

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperr.ErrInvalidToken.WithMessage("refresh token null")
	}
	return cookie.Value, nil
}

// ReissueHandler exchanges the refresh cookie for a fresh token pair.
// The new access token travels in the "access" response header; the new
// refresh token replaces the cookie.
func (s *Server) ReissueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presented, err := refreshTokenFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}

		pair, err := s.auth.Reissue(r.Context(), presented)
		if err != nil {
			writeError(w, err)
			return
		}

		http.SetCookie(w, s.refreshCookie(pair.Refresh))
		w.Header().Set(accessHeaderName, pair.Access)
		writeJSON(w, http.StatusOK, nil)
	}
}

// LogoutHandler validates the refresh cookie, deletes the server-side
// session record, and expires the cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presented, err := refreshTokenFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := s.auth.Logout(r.Context(), presented); err != nil {
			writeError(w, err)
			return
		}

		http.SetCookie(w, clearedCookie(refreshCookieName))
		writeJSON(w, http.StatusOK, nil)
	}
}
