package config

type OAuthConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURL() string
	GetPostLoginRedirectURL() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (OAuth) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (OAuth) GetGoogleRedirectURL() string {
	return GetEnv("GOOGLE_REDIRECT_URL", EnvVars{}.GetBaseURL()+"/api/users/oauth/google/callback")
}

// GetPostLoginRedirectURL is where the browser lands after a successful
// social login, with the token cookies already set.
func (OAuth) GetPostLoginRedirectURL() string {
	return GetEnv("POST_LOGIN_REDIRECT_URL", EnvVars{}.GetFrontendURL()+"/social-login/success")
}
