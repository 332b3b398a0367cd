// Copyright 2025 Certen Protocol
//
// Configuration Loader
//
// Loads the prover's YAML configuration, with ${VAR_NAME} / ${VAR_NAME:-default}
// environment variable substitution applied to the raw file before
// parsing. Grounded on pkg/config/anchor_config.go's LoadAnchorConfig/
// substituteEnvVars/Duration/applyDefaults/ValidateForEnvironment shape,
// trimmed to the sections this domain has: no contract address, gas, or
// CometBFT settings, since none of those concepts exist here.

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all prover configuration.
type Config struct {
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	Prover     ProverSettings     `yaml:"prover"`
	StateStore StateStoreSettings `yaml:"statestore"`
	Logging    LoggingSettings    `yaml:"logging"`
}

// ProverSettings locates the three circuits' proving/verifying key files.
// ShutdownTimeout is loaded and defaulted but not read by main.go or the
// worker; Worker.Stop waits for the run loop without a timeout.
type ProverSettings struct {
	KeysDir         string   `yaml:"keys_dir"`
	TransferKeyName string   `yaml:"transfer_key_name"`
	DepositKeyName  string   `yaml:"deposit_key_name"`
	ExitKeyName     string   `yaml:"exit_key_name"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// StateStoreSettings selects and configures the account persistence
// backend the prover engine is wired against. "memory" is the only
// backend this repo implements (pkg/statestore.Memory); any other value
// names a backend a deployment is expected to supply via the StateStore
// interface.
type StateStoreSettings struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

// LoggingSettings is loaded and defaulted, but no code in this repo reads
// it: main.go and the worker configure their *log.Logger directly, and
// cmd/keysetup loads no config file.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Duration wraps time.Duration for YAML unmarshaling as a Go duration
// string ("30s", "5m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads path, substitutes ${VAR_NAME}/${VAR_NAME:-default} references
// against the process environment, parses the result as YAML, and applies
// defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Prover.KeysDir == "" {
		c.Prover.KeysDir = "./keys"
	}
	if c.Prover.TransferKeyName == "" {
		c.Prover.TransferKeyName = "transfer"
	}
	if c.Prover.DepositKeyName == "" {
		c.Prover.DepositKeyName = "deposit"
	}
	if c.Prover.ExitKeyName == "" {
		c.Prover.ExitKeyName = "exit"
	}
	if c.Prover.ShutdownTimeout == 0 {
		c.Prover.ShutdownTimeout = Duration(30 * time.Second)
	}
	if c.StateStore.Backend == "" {
		c.StateStore.Backend = "memory"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks that the configuration is usable, per
// ValidateForEnvironment's pattern: production gets a stricter check than
// development.
func (c *Config) Validate() error {
	switch c.Environment {
	case "production":
		return c.validateProduction()
	default:
		return c.validateDevelopment()
	}
}

func (c *Config) validateDevelopment() error {
	if c.Prover.KeysDir == "" {
		return fmt.Errorf("prover.keys_dir is required")
	}
	return nil
}

func (c *Config) validateProduction() error {
	var errs []string

	if c.Prover.KeysDir == "" || strings.HasPrefix(c.Prover.KeysDir, "${") {
		errs = append(errs, "prover.keys_dir is required")
	}
	if c.StateStore.Backend == "memory" {
		errs = append(errs, "statestore.backend must not be \"memory\" in production")
	}
	if c.StateStore.Backend != "memory" && (c.StateStore.DSN == "" || strings.HasPrefix(c.StateStore.DSN, "${")) {
		errs = append(errs, "statestore.dsn is required for a non-memory backend")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}

		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// getEnvInt reads an integer environment variable, falling back to
// defaultValue when unset or unparsable.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
