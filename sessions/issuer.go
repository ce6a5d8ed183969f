// Package sessions issues and verifies the signed cookie sessions that keep an
// installed company logged in. Nothing is stored server side: a session lives
// until its token expires.
package sessions

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-company-auth/internal/config"
	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
	"github.com/rs/zerolog/log"
)

type Issuer struct {
	sessionSigner *hmacSigner
	refreshSigner *hmacSigner
	sessionTTL    time.Duration
	refreshTTL    time.Duration
	secureCookies bool
	nowFunc       func() time.Time
}

type Option func(*Issuer)

// WithNowFunc replaces the clock used for issuing and validating tokens.
func WithNowFunc(now func() time.Time) Option {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(cfg config.SessionConfig, opts ...Option) (*Issuer, error) {
	if cfg == nil {
		return nil, errors.New("[sessions NewIssuer] session config is required")
	}
	secret := cfg.GetSessionSecret()
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("[sessions NewIssuer] session secret is required")
	}

	sessionSigner, err := newDerivedSigner([]byte(secret), KindSession)
	if err != nil {
		return nil, fmt.Errorf("[sessions NewIssuer] %w", err)
	}
	refreshSigner, err := newDerivedSigner([]byte(secret), KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("[sessions NewIssuer] %w", err)
	}

	i := &Issuer{
		sessionSigner: sessionSigner,
		refreshSigner: refreshSigner,
		sessionTTL:    cfg.GetSessionTTL(),
		refreshTTL:    cfg.GetRefreshSessionTTL(),
		secureCookies: cfg.GetSecureCookies(),
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs a session token and a refresh token for tenantID.
func (i *Issuer) Issue(tenantID string) (*Tokens, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidSession, "[sessions Issue] tenant id is required")
	}
	now := i.nowFunc()

	session, sessionExp, err := i.sign(tenantID, KindSession, now)
	if err != nil {
		return nil, fmt.Errorf("[sessions Issue] %w", err)
	}
	refresh, refreshExp, err := i.sign(tenantID, KindRefresh, now)
	if err != nil {
		return nil, fmt.Errorf("[sessions Issue] %w", err)
	}

	return &Tokens{
		Session:          session,
		SessionExpiresAt: sessionExp,
		Refresh:          refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// CreateSession issues tokens for tenantID and writes both cookies.
func (i *Issuer) CreateSession(w http.ResponseWriter, tenantID string) (string, error) {
	tokens, err := i.Issue(tenantID)
	if err != nil {
		return "", err
	}
	i.SetCookies(w, tokens)
	return tokens.Session, nil
}

// Verify returns the claims of a valid session token, or nil.
func (i *Issuer) Verify(token string) *Claims {
	claims, err := i.parse(token, KindSession)
	if err != nil {
		logVerifyFailure(err, KindSession)
		return nil
	}
	return claims
}

// VerifyRefresh returns the claims of a valid refresh token, or nil.
func (i *Issuer) VerifyRefresh(token string) *Claims {
	claims, err := i.parse(token, KindRefresh)
	if err != nil {
		logVerifyFailure(err, KindRefresh)
		return nil
	}
	return claims
}

// FromRequest verifies the session cookie on r.
func (i *Issuer) FromRequest(r *http.Request) *Claims {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return i.Verify(cookie.Value)
}

// RefreshSession swaps a valid refresh cookie for a new session cookie. The
// refresh cookie itself is left untouched.
func (i *Issuer) RefreshSession(w http.ResponseWriter, r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidSession, "[sessions RefreshSession] missing refresh cookie")
	}
	refreshClaims, err := i.parse(cookie.Value, KindRefresh)
	if err != nil {
		logVerifyFailure(err, KindRefresh)
		return nil, fmt.Errorf("[sessions RefreshSession] %w", err)
	}

	now := i.nowFunc()
	session, exp, err := i.sign(refreshClaims.TenantID, KindSession, now)
	if err != nil {
		return nil, fmt.Errorf("[sessions RefreshSession] %w", err)
	}
	i.setCookie(w, CookieName, session, i.sessionTTL, exp)

	return i.parse(session, KindSession)
}

func (i *Issuer) sign(tenantID, kind string, now time.Time) (string, time.Time, error) {
	ttl := i.sessionTTL
	signer := i.sessionSigner
	if kind == KindRefresh {
		ttl = i.refreshTTL
		signer = i.refreshSigner
	}
	exp := now.Add(ttl)

	token, err := signer.Sign(&Claims{
		TenantID: tenantID,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   tenantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (i *Issuer) parse(token, kind string) (*Claims, error) {
	if token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidSession, "empty token")
	}
	signer := i.sessionSigner
	if kind == KindRefresh {
		signer = i.refreshSigner
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, signer.GetVerificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.nowFunc),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Join(apperrors.ErrSessionExpired, err)
		}
		return nil, apperrors.Join(apperrors.ErrInvalidSession, err)
	}
	if claims.Kind != kind || claims.TenantID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidSession, "unexpected token kind %q", claims.Kind)
	}
	return claims, nil
}

func logVerifyFailure(err error, kind string) {
	if errors.Is(err, apperrors.ErrSessionExpired) {
		log.Debug().Str("kind", kind).Msg("session token expired")
		return
	}
	log.Warn().Err(err).Str("kind", kind).Msg("session token rejected")
}
