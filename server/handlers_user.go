package server

import (
	"net/http"

	"github.com/jsw-dev/portfolio-server/auth"
	"github.com/jsw-dev/portfolio-server/internal/apperr"
	"github.com/jsw-dev/portfolio-server/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerInitiateRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type registerResendRequest struct {
	Email string `json:"email"`
}

type registerCompleteRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type updateUserRequest struct {
	Nickname        *string `json:"nickname"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type userResponse struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

func toUserResponse(user *users.User) userResponse {
	return userResponse{
		Email:    user.Email,
		Nickname: user.Nickname,
		Role:     string(user.Role),
	}
}

// LoginHandler verifies credentials and issues a token pair: the access
// token in the "access" response header, the refresh token as an
// http-only cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("email and password are required"))
			return
		}

		user, pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		http.SetCookie(w, s.refreshCookie(pair.Refresh))
		w.Header().Set(accessHeaderName, pair.Access)
		writeJSON(w, http.StatusOK, toUserResponse(user))
	}
}

// MeHandler returns the authenticated caller's profile.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFrom(r.Context())

		user, err := s.auth.GetUser(r.Context(), principal.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(user))
	}
}

// UpdateHandler changes the caller's nickname and/or password.
func (s *Server) UpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFrom(r.Context())

		var req updateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		user, err := s.auth.UpdateUser(r.Context(), principal.Email, auth.UpdateRequest{
			Nickname:        req.Nickname,
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(user))
	}
}

// DeleteHandler soft deletes the caller's account and clears the
// refresh cookie so the browser session ends with it.
func (s *Server) DeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFrom(r.Context())

		if err := s.auth.DeleteAccount(r.Context(), principal.Email); err != nil {
			writeError(w, err)
			return
		}

		http.SetCookie(w, clearedCookie(refreshCookieName))
		writeJSON(w, http.StatusOK, nil)
	}
}

// RegisterInitiateHandler starts signup by mailing a verification link.
func (s *Server) RegisterInitiateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerInitiateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("email and password are required"))
			return
		}

		if err := s.auth.InitiateRegistration(r.Context(), req.Email, req.Password, req.ConfirmPassword); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, nil)
	}
}

// RegisterResendHandler mails a fresh verification link.
func (s *Server) RegisterResendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerResendRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Email == "" {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("email is required"))
			return
		}

		if err := s.auth.ResendVerification(r.Context(), req.Email); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nil)
	}
}

// RegisterCompleteHandler consumes the verification token and creates
// the account.
func (s *Server) RegisterCompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerCompleteRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Token == "" || req.Password == "" {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("token and password are required"))
			return
		}

		user, err := s.auth.CompleteRegistration(r.Context(), req.Token, req.Password, req.Nickname)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(user))
	}
}

// ResetRequestHandler mails a password-reset link to an existing account.
func (s *Server) ResetRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequestRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Email == "" {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("email is required"))
			return
		}

		if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nil)
	}
}

// ResetConfirmHandler consumes the reset token and replaces the password.
func (s *Server) ResetConfirmHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetConfirmRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Token == "" || req.NewPassword == "" {
			writeError(w, apperr.ErrInvalidRequest.WithMessage("token and new password are required"))
			return
		}

		if err := s.auth.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nil)
	}
}
