package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	CorsConfig
	ProviderConfig
	SessionConfig
	StorageConfig
	Validate() error
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetLogLevel() string
	GetBaseAppURL() string
	GetAllowedRedirectOrigins() AllowedOrigins
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Provider
	Session
	Storage
}

var _ Config = mainConfig{}

// New loads the configuration from environment variables.
func New() (Config, error) {
	var c mainConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("[config New] parse env: %w", err)
	}
	return c, nil
}

// GetSecureCookies reports whether cookies must carry the Secure flag.
// It is forced on in production regardless of COOKIE_SECURE.
func (c mainConfig) GetSecureCookies() bool {
	return c.IsProduction() || c.Session.CookieSecure
}

// Validate checks that the secrets needed to run outside DEV are present.
func (c mainConfig) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("[config Validate] SESSION_SECRET is required")
	}
	if c.Provider.CallbackSecret == "" {
		return fmt.Errorf("[config Validate] CALLBACK_HMAC_SECRET is required")
	}
	if c.GetEnv() == EnvDev {
		return nil
	}
	if c.Provider.ClientID == "" || c.Provider.ClientSecret == "" {
		return fmt.Errorf("[config Validate] PROVIDER_CLIENT_ID and PROVIDER_CLIENT_SECRET are required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("[config Validate] SESSION_SECRET must be at least 32 bytes")
	}
	return nil
}
