package sessions

import (
	"net/http"
	"time"
)

// SetCookies writes the session and refresh cookies.
func (i *Issuer) SetCookies(w http.ResponseWriter, tokens *Tokens) {
	if tokens == nil {
		return
	}
	i.setCookie(w, CookieName, tokens.Session, i.sessionTTL, tokens.SessionExpiresAt)
	i.setCookie(w, RefreshCookieName, tokens.Refresh, i.refreshTTL, tokens.RefreshExpiresAt)
}

// DestroySession expires both cookies. Tokens already handed out stay valid
// until they expire.
func (i *Issuer) DestroySession(w http.ResponseWriter) {
	for _, name := range []string{CookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   i.secureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
	}
}

func (i *Issuer) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
		Expires:  expires,
	})
}
