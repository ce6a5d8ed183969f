package config

import "time"

type ProviderConfig interface {
	GetProviderBaseURL() string
	GetProviderClientID() string
	GetProviderClientSecret() string
	GetProviderRedirectURI() string
	GetCallbackSecret() string
	GetProviderHTTPTimeout() time.Duration
	GetForceIPv4() bool
}

type Provider struct {
	BaseURL        string        `env:"PROVIDER_BASE_URL" envDefault:"https://graph.facebook.com"`
	ClientID       string        `env:"PROVIDER_CLIENT_ID"`
	ClientSecret   string        `env:"PROVIDER_CLIENT_SECRET"`
	RedirectURI    string        `env:"PROVIDER_REDIRECT_URI" envDefault:"http://localhost:8080/auth/callback"`
	CallbackSecret string        `env:"CALLBACK_HMAC_SECRET"`
	HTTPTimeout    time.Duration `env:"PROVIDER_HTTP_TIMEOUT" envDefault:"20s"`
	ForceIPv4      bool          `env:"PROVIDER_FORCE_IPV4" envDefault:"false"`
}

var _ ProviderConfig = Provider{}

func (p Provider) GetProviderBaseURL() string {
	return p.BaseURL
}

func (p Provider) GetProviderClientID() string {
	return p.ClientID
}

func (p Provider) GetProviderClientSecret() string {
	return p.ClientSecret
}

func (p Provider) GetProviderRedirectURI() string {
	return p.RedirectURI
}

// GetCallbackSecret returns the secret shared with the provider for signing
// callback query strings.
func (p Provider) GetCallbackSecret() string {
	return p.CallbackSecret
}

func (p Provider) GetProviderHTTPTimeout() time.Duration {
	if p.HTTPTimeout <= 0 {
		return 20 * time.Second
	}
	return p.HTTPTimeout
}

func (p Provider) GetForceIPv4() bool {
	return p.ForceIPv4
}
