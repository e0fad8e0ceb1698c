// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/naveenspark/saasdash/internal/prefs"
	"github.com/naveenspark/saasdash/pkg/client"
)

type Config struct {
	APIURL       string
	Home         string
	PrefsBackend string
	LogFile      string
	Token        string
	HTTPTimeout  time.Duration
	LogoutOn401  bool
}

// Load reads .env (if present) and then the SAASDASH_* variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env: %v", err)
	}

	home := getEnv("SAASDASH_HOME", "")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		home = filepath.Join(userHome, ".saasdash")
	}

	timeout, err := getEnvAsDuration("SAASDASH_HTTP_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	logoutOn401, err := getEnvAsBool("SAASDASH_LOGOUT_ON_401", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:       getEnv("SAASDASH_API_URL", client.DefaultBaseURL),
		Home:         home,
		PrefsBackend: getEnv("SAASDASH_PREFS_BACKEND", prefs.BackendYAML),
		LogFile:      getEnv("SAASDASH_LOG_FILE", filepath.Join(home, "saasdash.log")),
		Token:        os.Getenv("SAASDASH_TOKEN"),
		HTTPTimeout:  timeout,
		LogoutOn401:  logoutOn401,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("SAASDASH_API_URL is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SAASDASH_API_URL %q is not an http(s) URL", c.APIURL)
	}
	switch c.PrefsBackend {
	case prefs.BackendYAML, prefs.BackendBolt, prefs.BackendMemory:
	default:
		return fmt.Errorf("SAASDASH_PREFS_BACKEND %q: want yaml, bolt or memory", c.PrefsBackend)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("SAASDASH_HTTP_TIMEOUT must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
