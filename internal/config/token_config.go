package config

import "time"

type TokenConfig interface {
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetVerificationTokenExpiry() time.Duration
	GetStoreTimeout() time.Duration
}

type Tokens struct{}

var _ TokenConfig = Tokens{}

func (Tokens) GetAccessTokenExpiry() time.Duration {
	return 10 * time.Minute
}

func (Tokens) GetRefreshTokenExpiry() time.Duration {
	return 24 * time.Hour
}

func (Tokens) GetVerificationTokenExpiry() time.Duration {
	return 24 * time.Hour
}

// GetStoreTimeout bounds every Redis round-trip so a slow backend
// cannot stall the request pool indefinitely.
func (Tokens) GetStoreTimeout() time.Duration {
	return 3 * time.Second
}
