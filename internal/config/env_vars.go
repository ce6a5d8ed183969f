package config

import (
	"strings"
)

const (
	EnvDev  = "DEV"
	EnvProd = "PROD"
)

type EnvVars struct {
	Port                   string   `env:"PORT" envDefault:"8080"`
	AppName                string   `env:"APP_NAME" envDefault:"Company Auth"`
	Env                    string   `env:"ENV" envDefault:"DEV"`
	LogLevel               string   `env:"LOG_LEVEL" envDefault:"info"`
	BaseAppURL             string   `env:"BASE_APP_URL" envDefault:"http://localhost:3000"`
	AllowedRedirectOrigins []string `env:"ALLOWED_REDIRECT_ORIGINS" envSeparator:","`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return EnvDev
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) IsProduction() bool {
	env := e.GetEnv()
	return env == EnvProd || env == "PRODUCTION"
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// GetBaseAppURL returns the front-end URL callers are sent back to when the
// callback carries no usable redirect_to (e.g., "https://app.example.com").
func (e EnvVars) GetBaseAppURL() string {
	return strings.TrimRight(e.BaseAppURL, "/")
}

// GetAllowedRedirectOrigins returns the origins redirect_to may point at.
// An empty set allows any origin.
func (e EnvVars) GetAllowedRedirectOrigins() AllowedOrigins {
	return newAllowedOrigins(e.AllowedRedirectOrigins)
}
