package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5174", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.VerificationCodeTTL)
	assert.Equal(t, "log", cfg.MailProvider)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("MAIL_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "re_123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "re_123", cfg.ResendAPIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AccessTokenSecret:    "access",
			RefreshTokenSecret:   "refresh",
			AccessTokenTTL:       time.Minute,
			RefreshTokenTTL:      time.Hour,
			VerificationCodeTTL:  15 * time.Minute,
			SessionPurgeInterval: time.Hour,
			MailProvider:         "log",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing access secret",
			mutate:  func(c *Config) { c.AccessTokenSecret = " " },
			wantErr: "ACCESS_TOKEN_SECRET environment variable is required",
		},
		{
			name:    "missing refresh secret",
			mutate:  func(c *Config) { c.RefreshTokenSecret = "" },
			wantErr: "REFRESH_TOKEN_SECRET environment variable is required",
		},
		{
			name:    "shared secret",
			mutate:  func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret },
			wantErr: "ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ",
		},
		{
			name:    "zero lifetime",
			mutate:  func(c *Config) { c.AccessTokenTTL = 0 },
			wantErr: "token lifetimes must be positive",
		},
		{
			name:    "zero verification code lifetime",
			mutate:  func(c *Config) { c.VerificationCodeTTL = 0 },
			wantErr: "VERIFICATION_CODE_TTL must be positive",
		},
		{
			name:    "negative verification code lifetime",
			mutate:  func(c *Config) { c.VerificationCodeTTL = -time.Minute },
			wantErr: "VERIFICATION_CODE_TTL must be positive",
		},
		{
			name:    "zero purge interval",
			mutate:  func(c *Config) { c.SessionPurgeInterval = 0 },
			wantErr: "SESSION_PURGE_INTERVAL must be positive",
		},
		{
			name:    "negative purge interval",
			mutate:  func(c *Config) { c.SessionPurgeInterval = -time.Hour },
			wantErr: "SESSION_PURGE_INTERVAL must be positive",
		},
		{
			name:    "resend without key",
			mutate:  func(c *Config) { c.MailProvider = "resend" },
			wantErr: "RESEND_API_KEY is required when MAIL_PROVIDER=resend",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.MailProvider = "carrier-pigeon" },
			wantErr: `unknown MAIL_PROVIDER "carrier-pigeon"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLoadWeb(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.internal:5174")

	cfg, err := LoadWeb()
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:5174", cfg.APIBaseURL)
	assert.Equal(t, "3000", cfg.WebPort)
}

func TestValidateWeb(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		apiBaseURL  string
		wantErr     string
	}{
		{name: "development over http", environment: "development", apiBaseURL: "http://localhost:5174"},
		{name: "production over https", environment: "production", apiBaseURL: "https://api.example.com"},
		{
			name:        "production over http",
			environment: "production",
			apiBaseURL:  "http://api.example.com",
			wantErr:     "API_BASE_URL must use https when ENVIRONMENT=production",
		},
		{
			name:        "missing",
			environment: "development",
			apiBaseURL:  " ",
			wantErr:     "API_BASE_URL environment variable is required",
		},
		{
			name:        "no host",
			environment: "development",
			apiBaseURL:  "localhost",
			wantErr:     `API_BASE_URL "localhost" is not a valid URL`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment, APIBaseURL: tt.apiBaseURL}
			err := cfg.ValidateWeb()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
