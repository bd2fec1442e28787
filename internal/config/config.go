package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 5000
	defaultEnv        = "development"
	defaultDataFile   = "data/spark_entries.json"

	// Environment overrides, applied on top of the config file. The
	// service is routinely deployed with env-only configuration.
	EnvPort     = "PORT"
	EnvDataFile = "DATA_FILE"
	EnvAppEnv   = "SPARK_ENV"
)

// AppConfig holds runtime startup configuration loaded from YAML and the
// environment.
type AppConfig struct {
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"` // "development" | "production"
	DataFile       string   `yaml:"data_file"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// rawAppConfig accepts legacy/alias keys before they collapse into AppConfig.
type rawAppConfig struct {
	Port               int      `yaml:"port"`
	Env                string   `yaml:"env"`
	NodeEnv            string   `yaml:"node_env"`
	DataFile           string   `yaml:"data_file"`
	DataPath           string   `yaml:"data_path"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Load reads the YAML config at configPath and applies environment
// overrides. A missing config file is not an error: the service falls back
// to defaults plus environment, which is how container deployments run it.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		raw := rawAppConfig{}
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		applyRawAppConfig(&cfg, raw)
	case errors.Is(err, os.ErrNotExist):
		// defaults + env only
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		return nil, errors.New("data_file must not be empty")
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		DataFile: defaultDataFile,
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.DataFile); v != "" {
		cfg.DataFile = v
	}
	if v := strings.TrimSpace(raw.DataPath); v != "" {
		cfg.DataFile = v
	}
	if len(raw.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = raw.AllowedOrigins
	}
	if len(raw.CORSAllowedOrigins) > 0 {
		cfg.AllowedOrigins = raw.CORSAllowedOrigins
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataFile)); v != "" {
		cfg.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAppEnv)); v != "" {
		cfg.Env = v
	}
	return nil
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}
