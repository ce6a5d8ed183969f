package config

import "time"

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetRefreshSessionTTL() time.Duration
	GetSecureCookies() bool
}

type Session struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"7h"`
	RefreshTTL   time.Duration `env:"REFRESH_SESSION_TTL" envDefault:"720h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

func (s Session) GetSessionSecret() string {
	return s.Secret
}

func (s Session) GetSessionTTL() time.Duration {
	if s.TTL <= 0 {
		return 7 * time.Hour
	}
	return s.TTL
}

func (s Session) GetRefreshSessionTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return 30 * 24 * time.Hour // 30 days
	}
	return s.RefreshTTL
}

func (s Session) GetSecureCookies() bool {
	return s.CookieSecure
}
