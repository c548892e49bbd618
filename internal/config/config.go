// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Store  StoreConfig
	Assets AssetsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StoreConfig holds local store configuration.
type StoreConfig struct {
	// DataPath is the directory holding the badger database (default: ~/.mailcanvas/data).
	DataPath string
}

// AssetsConfig holds image fetch configuration.
type AssetsConfig struct {
	// MaxBytes caps the size of a single fetched image (default: 10MB).
	MaxBytes int64
	// FetchTimeout bounds one HTTP image download (default: 30s).
	FetchTimeout time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Directory for the local store")
	assetMaxBytes := flag.String("asset-max-bytes", "", "Max size of one fetched image in bytes")
	assetTimeout := flag.String("asset-timeout", "", "Timeout for one image fetch (e.g., 30s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	return loadConfig(flagValues{
		env:           *env,
		logLevel:      *logLevel,
		dataPath:      *dataPath,
		assetMaxBytes: *assetMaxBytes,
		assetTimeout:  *assetTimeout,
		envFile:       *envFile,
	})
}

// flagValues carries parsed flag values so loadConfig stays testable
// without touching the global flag set.
type flagValues struct {
	env           string
	logLevel      string
	dataPath      string
	assetMaxBytes string
	assetTimeout  string
	envFile       string
}

func loadConfig(flags flagValues) (*Config, error) {
	// Load .env file if present. Missing file is not an error.
	if err := loadEnvFile(flags.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Store:  StoreConfig{DataPath: defaultDataPath()},
		Assets: AssetsConfig{
			MaxBytes:     10 * 1024 * 1024,
			FetchTimeout: 30 * time.Second,
		},
	}

	// Environment variables override defaults.
	applyEnv(&cfg.App.Environment, "MAILCANVAS_ENV")
	applyEnv(&cfg.Logger.Level, "MAILCANVAS_LOG_LEVEL")
	applyEnv(&cfg.Store.DataPath, "MAILCANVAS_DATA_PATH")
	if v := os.Getenv("MAILCANVAS_ASSET_MAX_BYTES"); v != "" {
		n, err := parseBytes(v)
		if err != nil {
			return nil, fmt.Errorf("MAILCANVAS_ASSET_MAX_BYTES: %w", err)
		}
		cfg.Assets.MaxBytes = n
	}
	if v := os.Getenv("MAILCANVAS_ASSET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MAILCANVAS_ASSET_TIMEOUT: %w", err)
		}
		cfg.Assets.FetchTimeout = d
	}

	// Flags override everything.
	applyFlag(&cfg.App.Environment, flags.env)
	applyFlag(&cfg.Logger.Level, flags.logLevel)
	applyFlag(&cfg.Store.DataPath, flags.dataPath)
	if flags.assetMaxBytes != "" {
		n, err := parseBytes(flags.assetMaxBytes)
		if err != nil {
			return nil, fmt.Errorf("asset-max-bytes: %w", err)
		}
		cfg.Assets.MaxBytes = n
	}
	if flags.assetTimeout != "" {
		d, err := time.ParseDuration(flags.assetTimeout)
		if err != nil {
			return nil, fmt.Errorf("asset-timeout: %w", err)
		}
		cfg.Assets.FetchTimeout = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment %q", c.App.Environment)
	}
	if c.Assets.MaxBytes <= 0 {
		return errors.New("asset max bytes must be positive")
	}
	if c.Assets.FetchTimeout <= 0 {
		return errors.New("asset fetch timeout must be positive")
	}
	return nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyFlag(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mailcanvas", "data")
	}
	return filepath.Join(home, ".mailcanvas", "data")
}

func parseBytes(s string) (int64, error) {
	var n int64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid byte count %q", s)
	}
	return n, nil
}

// loadEnvFile reads KEY=VALUE lines into the process environment.
// Existing environment variables win over file entries.
func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only file

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, value) //nolint:errcheck // best effort
		}
	}
	return scanner.Err()
}
