// Package config loads leafstage settings from YAML with environment
// overrides for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"leafstage/classifier"
	"leafstage/history"
	"leafstage/oracle"
	"leafstage/severity"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Oracle     OracleConfig     `yaml:"oracle"`
	History    history.Options  `yaml:"history"`
	Severity   severity.Bases   `yaml:"severity"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	UploadDir   string `yaml:"upload_dir"`
	StaticDir   string `yaml:"static_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ClassifierConfig struct {
	Strategy  classifier.Strategy  `yaml:"strategy"`
	Heuristic classifier.Heuristic `yaml:"heuristic"`
}

type OracleConfig struct {
	oracle.Config `yaml:",inline"`
	// Timeout bounds one oracle call. It is applied by the caller, not the engine.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8081",
			UploadDir:   "./uploads",
			StaticDir:   "./static",
			MaxUploadMB: 10,
		},
		Database: DatabaseConfig{Path: "leafstage.db"},
		Classifier: ClassifierConfig{
			Strategy:  classifier.StrategyLocal,
			Heuristic: classifier.DefaultHeuristic(),
		},
		Oracle: OracleConfig{
			Config:  oracle.Config{Provider: oracle.ProviderClaude},
			Timeout: 60 * time.Second,
		},
		History:  history.DefaultOptions(),
		Severity: severity.DefaultBases(),
	}
}

// Load reads path over the defaults; an empty path yields the defaults.
// A .env file in the working directory is loaded first when present, then
// environment overrides are applied.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LEAFSTAGE_STRATEGY"); v != "" {
		c.Classifier.Strategy = classifier.Strategy(strings.ToLower(v))
	}
	if v := os.Getenv("ORACLE_PROVIDER"); v != "" {
		c.Oracle.Provider = oracle.Provider(strings.ToLower(v))
	}
	if v := os.Getenv("ORACLE_MODEL"); v != "" {
		c.Oracle.Model = v
	}
	if c.Oracle.APIKey == "" {
		if env := oracle.APIKeyEnv(c.Oracle.Provider); env != "" {
			c.Oracle.APIKey = os.Getenv(env)
		}
	}
	if v := os.Getenv("LEAFSTAGE_DB"); v != "" {
		c.Database.Path = v
	}
}

func (c *Config) Validate() error {
	switch c.Classifier.Strategy {
	case classifier.StrategyLocal, classifier.StrategyRemote:
	default:
		return fmt.Errorf("unknown classifier strategy %q (supported: local, remote)", c.Classifier.Strategy)
	}
	if err := c.Classifier.Heuristic.Validate(); err != nil {
		return fmt.Errorf("classifier.heuristic: %w", err)
	}
	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}
	b := c.Severity
	if !(0 <= b.Healthy && b.Healthy <= b.Early && b.Early <= b.Mid && b.Mid <= b.Severe && b.Severe <= severity.MaxScore) {
		return errors.New("severity bases must be non-decreasing within [0, 100]")
	}
	if c.Oracle.Timeout < 0 {
		return errors.New("oracle.timeout must not be negative")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("server.max_upload_mb must be positive")
	}
	return nil
}

// RemoteEnabled reports whether an oracle can be built from this config.
func (c *Config) RemoteEnabled() bool {
	return c.Oracle.APIKey != ""
}
