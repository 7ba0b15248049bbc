package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/pinlog/internal/pin"
)

//go:embed config.cue
var configSchema string

// Config holds everything a command needs to reach Slack and the log.
type Config struct {
	Slack SlackConfig `yaml:"slack" json:"slack"`
	Store StoreConfig `yaml:"store" json:"store"`
}

// SlackConfig identifies the workspace and channel.
type SlackConfig struct {
	Token   string `yaml:"token" json:"token"`
	Channel string `yaml:"channel" json:"channel"`
}

// StoreConfig selects and addresses the log backend.
type StoreConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Environment variables that override file values. The token in
// particular should come from the environment, not the file.
const (
	EnvSlackToken  = "PINLOG_SLACK_TOKEN"
	EnvChannel     = "PINLOG_CHANNEL"
	EnvStoreDriver = "PINLOG_STORE_DRIVER"
	EnvStoreDSN    = "PINLOG_STORE_DSN"
)

// DefaultConfigPath is where commands look when --config is not given.
const DefaultConfigPath = "pinlog.yaml"

// LoadConfig reads the YAML config at path, applies environment
// overrides and defaults, and validates the result against the
// embedded schema. A missing file is acceptable when the environment
// supplies the required values; a missing required value is a
// CONFIGURATION_ERROR.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Environment-only configuration.
	case err != nil:
		return Config{}, pin.NewConfigurationError(fmt.Sprintf("reading config %s: %v", path, err))
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, pin.NewConfigurationError(fmt.Sprintf("parsing config %s: %v", path, err))
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvSlackToken); v != "" {
		cfg.Slack.Token = v
	}
	if v := os.Getenv(EnvChannel); v != "" {
		cfg.Slack.Channel = v
	}
	if v := os.Getenv(EnvStoreDriver); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		cfg.Store.DSN = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "sqlite"
	}
	if cfg.Store.DSN == "" && cfg.Store.Driver == "sqlite" {
		cfg.Store.DSN = "pinlog.db"
	}
}

// validateConfig unifies the resolved config with the embedded CUE
// schema. Schema violations surface as CONFIGURATION_ERRORs with the
// CUE path in the message.
func validateConfig(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	unified := schema.Unify(ctx.Encode(cfg))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return pin.NewConfigurationError(fmt.Sprintf("invalid configuration: %v", err))
	}
	return nil
}
