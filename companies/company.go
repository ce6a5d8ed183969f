package companies

import (
	"maps"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
)

// Company is a tenant installed through the provider's OAuth flow. The ID is
// the provider's company ID and is never generated locally.
type Company struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Handle      *string        `json:"handle,omitempty"` // unique across companies when set
	Description *string        `json:"description,omitempty"`
	LogoURL     *string        `json:"logo_url,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	// Provider OAuth material, nil until the first successful handshake
	AccessToken    *string    `json:"-"`
	RefreshToken   *string    `json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"` // set on first insert only
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields every write path requires.
func (c *Company) Validate() error {
	if c == nil {
		return apperrors.Wrapf(apperrors.ErrInvalidCompany, "company is nil")
	}
	if strings.TrimSpace(c.ID) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidCompany, "id is required")
	}
	if c.Handle != nil && strings.TrimSpace(*c.Handle) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidCompany, "handle must not be blank")
	}
	return nil
}

// Clone returns a deep copy so stored rows cannot be mutated by callers.
func (c *Company) Clone() *Company {
	if c == nil {
		return nil
	}
	out := *c
	out.Handle = clonePtr(c.Handle)
	out.Description = clonePtr(c.Description)
	out.LogoURL = clonePtr(c.LogoURL)
	out.Phone = clonePtr(c.Phone)
	out.AccessToken = clonePtr(c.AccessToken)
	out.RefreshToken = clonePtr(c.RefreshToken)
	out.TokenExpiresAt = clonePtr(c.TokenExpiresAt)
	if c.Metadata != nil {
		out.Metadata = maps.Clone(c.Metadata)
	}
	return &out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
