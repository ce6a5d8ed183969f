package cmd

import (
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-company-auth/install"
	"github.com/jrsteele09/go-company-auth/signature"
	"github.com/stretchr/testify/require"
)

func TestBuildCallbackQuery(t *testing.T) {
	now := time.Unix(1767225600, 0)
	raw := buildCallbackQuery("acme 1", "abc", "https://app.example.com/x?y=1", now)

	require.Equal(t, "company_id=acme+1&timestamp=1767225600&code=abc&redirect_to="+url.QueryEscape("https://app.example.com/x?y=1"), raw)

	verifier := signature.New("secret")
	signed := raw + "&hmac=" + verifier.Sign(raw)
	req := install.ParseCallbackRequest(signed)
	require.Equal(t, "acme 1", req.CompanyID)
	require.Equal(t, "https://app.example.com/x?y=1", req.RedirectTo)
	require.True(t, verifier.Verify(req.RawQuery, req.HMAC))
}

func TestBuildCallbackQuery_OmitsEmptyOptionals(t *testing.T) {
	raw := buildCallbackQuery("acme-1", "", "", time.Unix(10, 0))
	require.Equal(t, "company_id=acme-1&timestamp=10", raw)
}
