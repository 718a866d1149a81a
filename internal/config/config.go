package config

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	OAuthConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetFrontendURL() string
	GetDatabaseURL() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetJWTSecret() string
	GetSmtpHost() string
	GetSmtpPort() string
	GetSmtpPassword() string
	GetSmtpAccount() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Tokens
	OAuth
}

func New() Config {
	return mainConfig{}
}
