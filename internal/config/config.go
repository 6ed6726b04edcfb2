// Package config handles the XDG configuration directory, file paths and
// environment settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "phototask"

	// SessionFile is the persisted session filename.
	SessionFile = "session.json"

	// EnvFile is an optional dotenv file read from the config directory.
	EnvFile = ".env"

	// DefaultAPIURL is used when PHOTOTASK_API_URL is not set.
	DefaultAPIURL = "http://localhost:8080"

	// DefaultTimeout bounds a single HTTP call.
	DefaultTimeout = 30 * time.Second
)

// Environment variables.
const (
	EnvAPIURL   = "PHOTOTASK_API_URL"
	EnvTimeout  = "PHOTOTASK_TIMEOUT"
	EnvCacheDir = "PHOTOTASK_CACHE_DIR"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the backend base URL without trailing slash.
	APIURL string

	// Timeout bounds a single HTTP call.
	Timeout time.Duration

	// CacheDir receives processed photos before upload.
	CacheDir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/phototask or $HOME/.config/phototask.
// Settings come from the environment; a .env file in the working directory
// or in the config directory is loaded first without overriding variables
// that are already set.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	loadEnvFiles(filepath.Join(dir, EnvFile))

	cfg := &Config{
		Dir:      dir,
		APIURL:   strings.TrimRight(getEnv(EnvAPIURL, DefaultAPIURL), "/"),
		Timeout:  DefaultTimeout,
		CacheDir: getEnv(EnvCacheDir, DefaultCacheDir()),
	}

	if raw := os.Getenv(EnvTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", EnvTimeout, raw)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// loadEnvFiles loads whichever of .env and the given paths exist.
// godotenv never overrides variables that are already set.
func loadEnvFiles(paths ...string) {
	candidates := append([]string{EnvFile}, paths...)
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultCacheDir returns the user cache directory for processed photos.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}

// SessionPath returns the path to the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}
