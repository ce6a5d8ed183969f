// Package provider talks to the social platform's OAuth token endpoint and
// company profile API.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-company-auth/internal/config"
	"golang.org/x/oauth2"
)

const (
	TokenPath     = "/oauth/token"
	CompaniesPath = "/companies/"

	opExchangeCode = "ExchangeCode"
	opRefresh      = "Refresh"
	opFetchCompany = "FetchCompany"

	// maxErrorBody caps how much of an upstream error body is kept for logs.
	maxErrorBody = 4 << 10
)

// Config holds the client credentials and transport settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
	ForceIPv4    bool
}

// ConfigFrom builds a client Config from the service configuration.
func ConfigFrom(c config.ProviderConfig) Config {
	return Config{
		BaseURL:      c.GetProviderBaseURL(),
		ClientID:     c.GetProviderClientID(),
		ClientSecret: c.GetProviderClientSecret(),
		RedirectURI:  c.GetProviderRedirectURI(),
		Timeout:      c.GetProviderHTTPTimeout(),
		ForceIPv4:    c.GetForceIPv4(),
	}
}

// Client exchanges codes and refresh tokens and fetches company profiles.
// It never retries: a failed exchange means the user restarts the flow.
type Client struct {
	baseURL    string
	oauth      *oauth2.Config
	httpClient *http.Client
}

// New creates a provider client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		baseURL: baseURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + TokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: newHTTPClient(cfg.Timeout, cfg.ForceIPv4),
	}
}

// newHTTPClient returns a client with an overall request timeout. When
// forceIPv4 is set every connection is dialed over tcp4.
func newHTTPClient(timeout time.Duration, forceIPv4 bool) *http.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if forceIPv4 {
		dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
		transport.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp4", addr)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenSet, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &Error{Op: opExchangeCode, Err: errors.New("code is required")}
	}
	token, err := c.oauth.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return nil, wrapRetrieveError(opExchangeCode, err)
	}
	return toTokenSet(token), nil
}

// Refresh trades a refresh token for a new token set. When the provider does
// not rotate the refresh token the old one is carried over.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, &Error{Op: opRefresh, Err: errors.New("refresh token is required")}
	}
	token, err := c.oauth.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, wrapRetrieveError(opRefresh, err)
	}
	return toTokenSet(token), nil
}

// FetchCompany loads the company profile using a bearer access token.
func (c *Client) FetchCompany(ctx context.Context, companyID, accessToken string) (*CompanyProfile, error) {
	endpoint := c.baseURL + CompaniesPath + url.PathEscape(companyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Op: opFetchCompany, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: opFetchCompany, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &Error{Op: opFetchCompany, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: opFetchCompany, StatusCode: resp.StatusCode, Body: truncate(body)}
	}

	var profile CompanyProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &Error{Op: opFetchCompany, StatusCode: resp.StatusCode, Body: truncate(body), Err: fmt.Errorf("decode profile: %w", err)}
	}
	if profile.ID == "" {
		profile.ID = companyID
	}
	return &profile, nil
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func wrapRetrieveError(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return &Error{
			Op:         op,
			StatusCode: retrieveErr.Response.StatusCode,
			Body:       truncate(retrieveErr.Body),
			Err:        err,
		}
	}
	return &Error{Op: op, Err: err}
}

func toTokenSet(token *oauth2.Token) *TokenSet {
	return &TokenSet{
		AccessToken:      token.AccessToken,
		RefreshToken:     token.RefreshToken,
		TokenType:        token.TokenType,
		ExpiresInMinutes: expiresInMinutes(token),
	}
}

// expiresInMinutes prefers the provider's expires_in_minutes field and falls
// back to the standard expires_in (already folded into Expiry by oauth2).
func expiresInMinutes(token *oauth2.Token) int {
	switch v := token.Extra("expires_in_minutes").(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if token.Expiry.IsZero() {
		return 0
	}
	return int(math.Round(time.Until(token.Expiry).Minutes()))
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
