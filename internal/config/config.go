// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pkordes/livemap/internal/theme"
)

// Default endpoints of the two external collaborators.
const (
	DefaultBusinessListEndpoint = "https://api.pintude.com/api/business/findbiz"
	DefaultGeocodeEndpoint      = "https://maps.googleapis.com/maps/api/geocode/json"
)

// Config holds all configuration values for the map server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// BusinessListEndpoint is the directory URL fetched once per page view.
	BusinessListEndpoint string

	// GeocodeEndpoint is the reverse-geocoding URL queried on marker click.
	GeocodeEndpoint string

	// GeocodeAPIKey is sent as the key parameter of every geocode request. Required.
	GeocodeAPIKey string

	// MapsJSAPIKey loads the map widget in the browser.
	// Defaults to GeocodeAPIKey.
	MapsJSAPIKey string

	// Theme is the page theme used when a request does not pick one. Defaults to "indigo".
	Theme string

	// ViewIdleTTL is how long a page view may go without a request before it
	// is torn down. Defaults to 30m.
	ViewIdleTTL time.Duration

	// HTTPClientTimeout bounds each outbound request. Defaults to 10s.
	HTTPClientTimeout time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory, if present, seeds variables that are
// not already set. Returns an error listing any required variables that are
// not set and any values that do not parse.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		BusinessListEndpoint: getEnv("BUSINESS_LIST_ENDPOINT", DefaultBusinessListEndpoint),
		GeocodeEndpoint:      getEnv("GEOCODE_ENDPOINT", DefaultGeocodeEndpoint),
		Theme:                getEnv("THEME", theme.Default),
	}

	var missing, invalid []string

	cfg.GeocodeAPIKey = os.Getenv("GEOCODE_API_KEY")
	if cfg.GeocodeAPIKey == "" {
		missing = append(missing, "GEOCODE_API_KEY")
	}
	cfg.MapsJSAPIKey = getEnv("MAPS_JS_API_KEY", cfg.GeocodeAPIKey)

	var err error
	if cfg.ViewIdleTTL, err = getDuration("VIEW_IDLE_TTL", 30*time.Minute); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.HTTPClientTimeout, err = getDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.MaxBodyBytes, err = getInt64("MAX_BODY_BYTES", 1<<20); err != nil {
		invalid = append(invalid, err.Error())
	}
	if _, err := theme.Lookup(cfg.Theme); err != nil {
		invalid = append(invalid, fmt.Sprintf("THEME=%q is not one of %s", cfg.Theme, strings.Join(theme.Names(), ", ")))
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(invalid, "; "))
	}
	if len(problems) > 0 {
		return Config{}, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses a positive time.Duration such as "45s" or "1h".
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback, fmt.Errorf("%s=%q is not a positive duration", key, v)
	}
	return d, nil
}

// getInt64 parses a positive integer.
func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback, fmt.Errorf("%s=%q is not a positive integer", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
