package provider

import (
	"strconv"
	"time"

	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
)

// TokenSet is the provider's answer to a code or refresh-token grant.
type TokenSet struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	ExpiresInMinutes int    `json:"expires_in_minutes,omitempty"`
}

// ExpiresAt returns the absolute expiry of the access token relative to now,
// or nil when the provider did not say.
func (t *TokenSet) ExpiresAt(now time.Time) *time.Time {
	if t == nil || t.ExpiresInMinutes <= 0 {
		return nil
	}
	expiry := now.Add(time.Duration(t.ExpiresInMinutes) * time.Minute)
	return &expiry
}

// CompanyProfile is the company record returned by GET /companies/{id}.
type CompanyProfile struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Handle      string         `json:"handle"`
	Description string         `json:"description"`
	LogoURL     string         `json:"logo_url"`
	Phone       string         `json:"phone"`
	Metadata    map[string]any `json:"metadata"`
}

// Error describes a failed call to the provider. StatusCode and Body are set
// when the provider answered with a non-2xx response.
type Error struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	msg := "[provider " + e.Op + "] " + e.kind().Error()
	if e.StatusCode != 0 {
		msg += ": status " + strconv.Itoa(e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match provider failures against the service sentinels.
func (e *Error) Is(target error) bool {
	return target == e.kind()
}

func (e *Error) kind() error {
	if e.Op == opFetchCompany {
		return apperrors.ErrProfileFetch
	}
	return apperrors.ErrTokenExchange
}
