package config_test

import (
	"testing"
	"time"

	"github.com/pkordes/livemap/internal/config"
	"github.com/stretchr/testify/require"
)

// clearOptional blanks every optional variable so the host environment
// cannot leak into a test.
func clearOptional(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "CORS_ORIGINS", "BUSINESS_LIST_ENDPOINT", "GEOCODE_ENDPOINT",
		"MAPS_JS_API_KEY", "THEME", "VIEW_IDLE_TTL", "HTTP_CLIENT_TIMEOUT", "MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only the required GEOCODE_API_KEY is provided.
func TestLoad_defaults(t *testing.T) {
	clearOptional(t)
	t.Setenv("GEOCODE_API_KEY", "test-key")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, config.DefaultBusinessListEndpoint, cfg.BusinessListEndpoint)
	require.Equal(t, config.DefaultGeocodeEndpoint, cfg.GeocodeEndpoint)
	require.Equal(t, "test-key", cfg.GeocodeAPIKey)
	require.Equal(t, "test-key", cfg.MapsJSAPIKey, "maps key falls back to the geocode key")
	require.Equal(t, "indigo", cfg.Theme)
	require.Equal(t, 30*time.Minute, cfg.ViewIdleTTL)
	require.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
	require.EqualValues(t, 1<<20, cfg.MaxBodyBytes)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	t.Setenv("GEOCODE_API_KEY", "geo")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("BUSINESS_LIST_ENDPOINT", "http://directory.local/biz")
	t.Setenv("GEOCODE_ENDPOINT", "http://geocoder.local/json")
	t.Setenv("MAPS_JS_API_KEY", "browser")
	t.Setenv("THEME", "classic")
	t.Setenv("VIEW_IDLE_TTL", "5m")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")
	t.Setenv("MAX_BODY_BYTES", "4096")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "http://directory.local/biz", cfg.BusinessListEndpoint)
	require.Equal(t, "http://geocoder.local/json", cfg.GeocodeEndpoint)
	require.Equal(t, "geo", cfg.GeocodeAPIKey)
	require.Equal(t, "browser", cfg.MapsJSAPIKey)
	require.Equal(t, "classic", cfg.Theme)
	require.Equal(t, 5*time.Minute, cfg.ViewIdleTTL)
	require.Equal(t, 3*time.Second, cfg.HTTPClientTimeout)
	require.EqualValues(t, 4096, cfg.MaxBodyBytes)
}

// TestLoad_missingRequired verifies that an error is returned when GEOCODE_API_KEY
// is not set, and that the error message names the missing variable.
func TestLoad_missingRequired(t *testing.T) {
	clearOptional(t)
	t.Setenv("GEOCODE_API_KEY", "")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "GEOCODE_API_KEY")
}

// TestLoad_invalidValues verifies that unparsable values are reported together.
func TestLoad_invalidValues(t *testing.T) {
	clearOptional(t)
	t.Setenv("GEOCODE_API_KEY", "geo")
	t.Setenv("VIEW_IDLE_TTL", "forever")
	t.Setenv("MAX_BODY_BYTES", "-1")
	t.Setenv("THEME", "neon")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "VIEW_IDLE_TTL")
	require.ErrorContains(t, err, "MAX_BODY_BYTES")
	require.ErrorContains(t, err, `THEME="neon" is not one of classic, indigo, slate`)
}
