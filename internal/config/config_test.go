package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitcollab/internal/config"
)

const testKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=" // 32 bytes

func validVars() map[string]string {
	return map[string]string{
		"JWT_SECRET":     "jwt",
		"SESSION_SECRET": "session",
		"ENCRYPTION_KEY": testKey,
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(validVars())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, config.GrantStrategyAPI, cfg.Grant.Strategy)
	assert.Equal(t, 30*time.Second, cfg.Grant.OperationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Grant.StepTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.OAuthEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromOverrides(t *testing.T) {
	vars := validVars()
	vars["GRANT_STRATEGY"] = "browser"
	vars["GRANT_STEP_TIMEOUT"] = "3s"
	vars["CORS_ORIGINS"] = "https://a.example,https://b.example"
	vars["GITHUB_CLIENT_ID"] = "id"
	vars["GITHUB_CLIENT_SECRET"] = "secret"

	cfg, err := config.LoadFrom(vars)
	require.NoError(t, err)

	assert.Equal(t, config.GrantStrategyBrowser, cfg.Grant.Strategy)
	assert.Equal(t, 3*time.Second, cfg.Grant.StepTimeout)
	assert.Len(t, cfg.Server.CORSOrigins, 2)
	assert.True(t, cfg.OAuthEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing jwt secret", func(v map[string]string) { delete(v, "JWT_SECRET") }},
		{"missing session secret", func(v map[string]string) { delete(v, "SESSION_SECRET") }},
		{"short encryption key", func(v map[string]string) { v["ENCRYPTION_KEY"] = "c2hvcnQ=" }},
		{"unknown strategy", func(v map[string]string) { v["GRANT_STRATEGY"] = "email" }},
		{"unknown driver", func(v map[string]string) { v["DB_DRIVER"] = "mysql" }},
		{"zero timeout", func(v map[string]string) { v["GRANT_TIMEOUT"] = "0s" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := validVars()
			tt.mutate(vars)
			cfg, err := config.LoadFrom(vars)
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}
