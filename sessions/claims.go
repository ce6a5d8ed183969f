package sessions

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName carries the short-lived session token.
	CookieName = "session"
	// RefreshCookieName carries the long-lived refresh token.
	RefreshCookieName = "refresh_session"

	KindSession = "session"
	KindRefresh = "refresh"

	tokenIssuer = "company-auth"
)

// Claims identifies the tenant a session belongs to.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// Tokens is the pair handed to the browser after a successful handshake.
type Tokens struct {
	Session          string    `json:"-"`
	SessionExpiresAt time.Time `json:"session_expires_at"`
	Refresh          string    `json:"-"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
