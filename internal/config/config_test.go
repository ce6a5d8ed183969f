package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-company-auth/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, config.EnvDev, c.GetEnv())
	require.False(t, c.IsProduction())
	require.False(t, c.GetSecureCookies())
	require.Equal(t, 7*time.Hour, c.GetSessionTTL())
	require.Equal(t, 30*24*time.Hour, c.GetRefreshSessionTTL())
	require.Equal(t, 20*time.Second, c.GetProviderHTTPTimeout())
	require.Equal(t, config.DriverSQLite, c.GetDatabaseDriver())
	require.Empty(t, c.GetAllowedRedirectOrigins())
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("ENV", "prod")
	t.Setenv("BASE_APP_URL", "https://app.example.com/")
	t.Setenv("ALLOWED_REDIRECT_ORIGINS", "https://app.example.com, https://beta.example.com/")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("PROVIDER_FORCE_IPV4", "true")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":9000", c.GetPort())
	require.True(t, c.IsProduction())
	require.True(t, c.GetSecureCookies())
	require.Equal(t, "https://app.example.com", c.GetBaseAppURL())
	require.Equal(t, 2*time.Hour, c.GetSessionTTL())
	require.True(t, c.GetForceIPv4())

	origins := c.GetAllowedRedirectOrigins()
	require.True(t, origins.IsAllowedOrigin("https://app.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://beta.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://evil.example.com"))
}

func TestValidate(t *testing.T) {
	t.Run("missing secrets", func(t *testing.T) {
		c, err := config.New()
		require.NoError(t, err)
		require.ErrorContains(t, c.Validate(), "SESSION_SECRET")
	})

	t.Run("dev with secrets", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "short")
		t.Setenv("CALLBACK_HMAC_SECRET", "shared")
		c, err := config.New()
		require.NoError(t, err)
		require.NoError(t, c.Validate())
	})

	t.Run("prod requires provider credentials", func(t *testing.T) {
		t.Setenv("ENV", "PROD")
		t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("CALLBACK_HMAC_SECRET", "shared")
		c, err := config.New()
		require.NoError(t, err)
		require.ErrorContains(t, c.Validate(), "PROVIDER_CLIENT_ID")

		t.Setenv("PROVIDER_CLIENT_ID", "id")
		t.Setenv("PROVIDER_CLIENT_SECRET", "secret")
		c, err = config.New()
		require.NoError(t, err)
		require.NoError(t, c.Validate())
	})
}
