package sessions_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-company-auth/internal/config"
	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
	"github.com/jrsteele09/go-company-auth/sessions"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestIssuer(t *testing.T, secure bool) (*sessions.Issuer, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cfg := &config.Session{
		Secret:       "test-session-secret-that-is-long-enough",
		TTL:          7 * time.Hour,
		RefreshTTL:   30 * 24 * time.Hour,
		CookieSecure: secure,
	}
	issuer, err := sessions.NewIssuer(cfg, sessions.WithNowFunc(clock.Now))
	require.NoError(t, err)
	return issuer, clock
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestNewIssuer(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		_, err := sessions.NewIssuer(nil)
		require.Error(t, err)
	})

	t.Run("requires secret", func(t *testing.T) {
		_, err := sessions.NewIssuer(&config.Session{})
		require.Error(t, err)
	})
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer, clock := newTestIssuer(t, false)

	tokens, err := issuer.Issue("acme-1")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Session)
	require.NotEmpty(t, tokens.Refresh)
	require.Equal(t, clock.now.Add(7*time.Hour), tokens.SessionExpiresAt)
	require.Equal(t, clock.now.Add(30*24*time.Hour), tokens.RefreshExpiresAt)

	claims := issuer.Verify(tokens.Session)
	require.NotNil(t, claims)
	require.Equal(t, "acme-1", claims.TenantID)
	require.Equal(t, sessions.KindSession, claims.Kind)
	require.NotEmpty(t, claims.ID)

	refresh := issuer.VerifyRefresh(tokens.Refresh)
	require.NotNil(t, refresh)
	require.Equal(t, "acme-1", refresh.TenantID)
	require.Equal(t, sessions.KindRefresh, refresh.Kind)
}

func TestIssuer_RequiresTenant(t *testing.T) {
	issuer, _ := newTestIssuer(t, false)
	_, err := issuer.Issue(" ")
	require.ErrorIs(t, err, apperrors.ErrInvalidSession)
}

func TestIssuer_Expiry(t *testing.T) {
	issuer, clock := newTestIssuer(t, false)
	tokens, err := issuer.Issue("acme-1")
	require.NoError(t, err)

	clock.Advance(7*time.Hour - time.Second)
	require.NotNil(t, issuer.Verify(tokens.Session))

	clock.Advance(2 * time.Second)
	require.Nil(t, issuer.Verify(tokens.Session))
	require.NotNil(t, issuer.VerifyRefresh(tokens.Refresh))

	clock.Advance(30 * 24 * time.Hour)
	require.Nil(t, issuer.VerifyRefresh(tokens.Refresh))
}

func TestIssuer_RejectsForeignTokens(t *testing.T) {
	issuer, _ := newTestIssuer(t, false)
	tokens, err := issuer.Issue("acme-1")
	require.NoError(t, err)

	t.Run("refresh token is not a session", func(t *testing.T) {
		require.Nil(t, issuer.Verify(tokens.Refresh))
	})

	t.Run("session token is not a refresh", func(t *testing.T) {
		require.Nil(t, issuer.VerifyRefresh(tokens.Session))
	})

	t.Run("tampered token", func(t *testing.T) {
		tampered := tokens.Session[:len(tokens.Session)-2] + "xx"
		require.Nil(t, issuer.Verify(tampered))
	})

	t.Run("garbage", func(t *testing.T) {
		require.Nil(t, issuer.Verify("not-a-jwt"))
		require.Nil(t, issuer.Verify(""))
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := sessions.NewIssuer(&config.Session{Secret: "a-completely-different-secret-value"})
		require.NoError(t, err)
		require.Nil(t, other.Verify(tokens.Session))
	})
}

func TestIssuer_CreateSessionSetsCookies(t *testing.T) {
	for _, secure := range []bool{false, true} {
		issuer, _ := newTestIssuer(t, secure)
		rec := httptest.NewRecorder()

		token, err := issuer.CreateSession(rec, "acme-1")
		require.NoError(t, err)

		cookies := cookiesByName(rec)
		require.Len(t, cookies, 2)

		session := cookies[sessions.CookieName]
		require.NotNil(t, session)
		require.Equal(t, token, session.Value)
		require.True(t, session.HttpOnly)
		require.Equal(t, secure, session.Secure)
		require.Equal(t, http.SameSiteLaxMode, session.SameSite)
		require.Equal(t, "/", session.Path)
		require.Equal(t, int((7 * time.Hour).Seconds()), session.MaxAge)

		refresh := cookies[sessions.RefreshCookieName]
		require.NotNil(t, refresh)
		require.True(t, refresh.HttpOnly)
		require.Equal(t, int((30 * 24 * time.Hour).Seconds()), refresh.MaxAge)
		require.NotNil(t, issuer.VerifyRefresh(refresh.Value))
	}
}

func TestIssuer_FromRequest(t *testing.T) {
	issuer, _ := newTestIssuer(t, false)
	tokens, err := issuer.Issue("acme-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	require.Nil(t, issuer.FromRequest(req))

	req.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: tokens.Session})
	claims := issuer.FromRequest(req)
	require.NotNil(t, claims)
	require.Equal(t, "acme-1", claims.TenantID)
}

func TestIssuer_RefreshSession(t *testing.T) {
	issuer, clock := newTestIssuer(t, false)
	tokens, err := issuer.Issue("acme-1")
	require.NoError(t, err)

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		_, err := issuer.RefreshSession(httptest.NewRecorder(), req)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})

	t.Run("session token in refresh cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: sessions.RefreshCookieName, Value: tokens.Session})
		_, err := issuer.RefreshSession(httptest.NewRecorder(), req)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})

	t.Run("mints a new session after expiry", func(t *testing.T) {
		clock.Advance(8 * time.Hour)
		require.Nil(t, issuer.Verify(tokens.Session))

		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: sessions.RefreshCookieName, Value: tokens.Refresh})
		rec := httptest.NewRecorder()

		claims, err := issuer.RefreshSession(rec, req)
		require.NoError(t, err)
		require.Equal(t, "acme-1", claims.TenantID)

		cookies := cookiesByName(rec)
		require.Len(t, cookies, 1)
		require.NotNil(t, issuer.Verify(cookies[sessions.CookieName].Value))
	})

	t.Run("expired refresh", func(t *testing.T) {
		clock.Advance(31 * 24 * time.Hour)
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: sessions.RefreshCookieName, Value: tokens.Refresh})
		_, err := issuer.RefreshSession(httptest.NewRecorder(), req)
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})
}

func TestIssuer_DestroySession(t *testing.T) {
	issuer, _ := newTestIssuer(t, true)
	rec := httptest.NewRecorder()
	issuer.DestroySession(rec)

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 2)
	for _, name := range []string{sessions.CookieName, sessions.RefreshCookieName} {
		c := cookies[name]
		require.NotNil(t, c)
		require.Empty(t, c.Value)
		require.Equal(t, -1, c.MaxAge)
		require.True(t, c.Secure)
	}
}
