package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Session routes
	RouteLogin   = "/api/users/login"
	RouteReissue = "/api/users/reissue"
	RouteLogout  = "/api/users/logout"

	// Registration routes
	RouteRegisterInitiate = "/api/users/register/initiate"
	RouteRegisterResend   = "/api/users/register/resend"
	RouteRegisterComplete = "/api/users/register/complete"

	// Account routes (require access token)
	RouteMe     = "/api/users/me"
	RouteUpdate = "/api/users/update"
	RouteDelete = "/api/users/delete"

	// Password reset routes
	RouteResetRequest = "/api/users/reset-password/request"
	RouteResetConfirm = "/api/users/reset-password/confirm"

	// Social login routes
	RouteOAuthGoogle         = "/api/users/oauth/google"
	RouteOAuthGoogleCallback = "/api/users/oauth/google/callback"
)

const (
	refreshCookieName = "refresh"
	accessCookieName  = "access"
	accessHeaderName  = "access"
	stateCookieName   = "oauth_state"
)
