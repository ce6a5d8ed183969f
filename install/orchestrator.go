// Package install runs the OAuth callback that installs a company or logs an
// installed company back in.
package install

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-company-auth/companies"
	"github.com/jrsteele09/go-company-auth/internal/config"
	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
	"github.com/jrsteele09/go-company-auth/internal/utils"
	"github.com/jrsteele09/go-company-auth/provider"
	"github.com/jrsteele09/go-company-auth/sessions"
	"github.com/rs/zerolog/log"
)

const (
	PathConsole    = "/console"
	PathOnboarding = "/onboarding"
)

// Provider is the subset of the provider client the flow needs.
type Provider interface {
	ExchangeCode(ctx context.Context, code string) (*provider.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*provider.TokenSet, error)
	FetchCompany(ctx context.Context, companyID, accessToken string) (*provider.CompanyProfile, error)
}

// SignatureVerifier checks the callback HMAC over the raw query string.
type SignatureVerifier interface {
	Verify(rawQuery, provided string) bool
}

// SessionIssuer mints the session token pair for a company.
type SessionIssuer interface {
	Issue(tenantID string) (*sessions.Tokens, error)
}

// Result tells the HTTP layer where to send the browser and which cookies to set.
type Result struct {
	CompanyID   string
	NewInstall  bool
	RedirectURL string
	Tokens      *sessions.Tokens
}

type Orchestrator struct {
	repo           companies.Repo
	provider       Provider
	verifier       SignatureVerifier
	issuer         SessionIssuer
	baseAppURL     string
	allowedOrigins config.AllowedOrigins
	nowFunc        func() time.Time
}

type Option func(*Orchestrator)

func WithNowFunc(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.nowFunc = now
	}
}

// WithBaseAppURL sets the redirect base used when redirect_to is absent or unusable.
func WithBaseAppURL(baseURL string) Option {
	return func(o *Orchestrator) {
		o.baseAppURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAllowedRedirectOrigins restricts redirect_to to the given origins.
// An empty set allows any http(s) origin.
func WithAllowedRedirectOrigins(origins config.AllowedOrigins) Option {
	return func(o *Orchestrator) {
		o.allowedOrigins = origins
	}
}

func New(repo companies.Repo, p Provider, verifier SignatureVerifier, issuer SessionIssuer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		repo:       repo,
		provider:   p,
		verifier:   verifier,
		issuer:     issuer,
		baseAppURL: "http://localhost:3000",
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleCallback runs the callback state machine for one request. Companies
// already in the directory get a session straight away; new installs are
// verified, exchanged, fetched and persisted first.
func (o *Orchestrator) HandleCallback(ctx context.Context, req CallbackRequest) (*Result, error) {
	if err := req.validateEntry(); err != nil {
		log.Debug().Err(err).Msg("callback rejected: malformed request")
		return nil, err
	}
	redirectBase := o.resolveRedirect(req.RedirectTo)

	existing, err := o.repo.FindByID(ctx, req.CompanyID)
	if err != nil {
		log.Err(err).Str("company_id", req.CompanyID).Msg("company lookup failed")
		return nil, apperrors.Join(apperrors.ErrPersistence, err)
	}
	if existing != nil {
		// Returning companies carry no code to exchange, so the HMAC is not checked here.
		return o.finish(req.CompanyID, false, redirectBase+PathConsole)
	}

	if req.Code == "" {
		log.Debug().Str("company_id", req.CompanyID).Msg("callback rejected: missing code")
		return nil, apperrors.Wrapf(apperrors.ErrMissingParameter, "%s", ParamCode)
	}
	if !o.verifier.Verify(req.RawQuery, req.HMAC) {
		log.Warn().Bool("security", true).Str("company_id", req.CompanyID).Msg("callback rejected: invalid hmac")
		return nil, apperrors.Wrapf(apperrors.ErrInvalidSignature, "[install HandleCallback] %s", req.CompanyID)
	}
	now := o.nowFunc()
	if err := checkFreshness(req.Timestamp, now); err != nil {
		if errors.Is(err, apperrors.ErrStaleCallback) {
			log.Warn().Bool("security", true).Err(err).Str("company_id", req.CompanyID).Msg("callback rejected: stale timestamp")
		} else {
			log.Debug().Err(err).Str("company_id", req.CompanyID).Msg("callback rejected: bad timestamp")
		}
		return nil, err
	}

	tokens, err := o.provider.ExchangeCode(ctx, req.Code)
	if err != nil {
		logUpstreamFailure(err, req.CompanyID, "token exchange failed")
		return nil, fmt.Errorf("[install HandleCallback] %w", err)
	}

	profile, err := o.provider.FetchCompany(ctx, req.CompanyID, tokens.AccessToken)
	if err != nil {
		logUpstreamFailure(err, req.CompanyID, "company profile fetch failed")
		return nil, fmt.Errorf("[install HandleCallback] %w", err)
	}

	company := companyFromProfile(req.CompanyID, profile, tokens, now)
	if _, err := o.repo.Upsert(ctx, company); err != nil {
		log.Err(err).Str("company_id", req.CompanyID).Msg("company upsert failed")
		return nil, apperrors.Join(apperrors.ErrPersistence, err)
	}
	log.Info().Str("company_id", req.CompanyID).Msg("company installed")

	return o.finish(req.CompanyID, true, redirectBase+PathOnboarding)
}

// RotateTokens swaps the stored provider refresh token for a fresh token set.
func (o *Orchestrator) RotateTokens(ctx context.Context, companyID string) (*companies.Company, error) {
	company, err := o.repo.FindByID(ctx, companyID)
	if err != nil {
		return nil, apperrors.Join(apperrors.ErrPersistence, err)
	}
	if company == nil {
		return nil, apperrors.Wrapf(apperrors.ErrCompanyNotFound, "[install RotateTokens] %s", companyID)
	}
	if utils.Value(company.RefreshToken) == "" {
		return nil, apperrors.Wrapf(apperrors.ErrTokenExchange, "[install RotateTokens] %s has no refresh token", companyID)
	}

	tokens, err := o.provider.Refresh(ctx, utils.Value(company.RefreshToken))
	if err != nil {
		logUpstreamFailure(err, companyID, "token refresh failed")
		return nil, fmt.Errorf("[install RotateTokens] %w", err)
	}

	company.AccessToken = utils.Ptr(tokens.AccessToken)
	if tokens.RefreshToken != "" {
		company.RefreshToken = utils.Ptr(tokens.RefreshToken)
	}
	company.TokenExpiresAt = tokens.ExpiresAt(o.nowFunc())

	stored, err := o.repo.Upsert(ctx, company)
	if err != nil {
		log.Err(err).Str("company_id", companyID).Msg("company upsert failed")
		return nil, apperrors.Join(apperrors.ErrPersistence, err)
	}
	return stored, nil
}

func (o *Orchestrator) finish(companyID string, newInstall bool, redirectURL string) (*Result, error) {
	tokens, err := o.issuer.Issue(companyID)
	if err != nil {
		log.Err(err).Str("company_id", companyID).Msg("session issue failed")
		return nil, apperrors.Join(apperrors.ErrInternal, err)
	}
	return &Result{
		CompanyID:   companyID,
		NewInstall:  newInstall,
		RedirectURL: redirectURL,
		Tokens:      tokens,
	}, nil
}

// resolveRedirect returns redirect_to without a trailing slash when it is an
// absolute http(s) URL on an allowed origin, or the base app URL otherwise.
func (o *Orchestrator) resolveRedirect(redirectTo string) string {
	if redirectTo == "" {
		return o.baseAppURL
	}
	u, err := url.Parse(redirectTo)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		log.Debug().Str("redirect_to", redirectTo).Msg("unusable redirect_to, using base app url")
		return o.baseAppURL
	}
	if len(o.allowedOrigins) > 0 && !o.allowedOrigins.IsAllowedOrigin(u.Scheme+"://"+u.Host) {
		log.Warn().Bool("security", true).Str("redirect_to", redirectTo).Msg("redirect_to origin not allowed")
		return o.baseAppURL
	}
	return strings.TrimRight(redirectTo, "/")
}

func companyFromProfile(companyID string, profile *provider.CompanyProfile, tokens *provider.TokenSet, now time.Time) *companies.Company {
	return &companies.Company{
		ID:             companyID,
		Name:           profile.Name,
		Handle:         utils.OptionalString(profile.Handle),
		Description:    utils.OptionalString(profile.Description),
		LogoURL:        utils.OptionalString(profile.LogoURL),
		Phone:          utils.OptionalString(profile.Phone),
		Metadata:       profile.Metadata,
		AccessToken:    utils.Ptr(tokens.AccessToken),
		RefreshToken:   utils.OptionalString(tokens.RefreshToken),
		TokenExpiresAt: tokens.ExpiresAt(now),
	}
}

func logUpstreamFailure(err error, companyID, msg string) {
	event := log.Error().Err(err).Str("company_id", companyID)
	var perr *provider.Error
	if errors.As(err, &perr) {
		event = event.Str("op", perr.Op).Int("upstream_status", perr.StatusCode).Str("upstream_body", perr.Body)
	}
	event.Msg(msg)
}
