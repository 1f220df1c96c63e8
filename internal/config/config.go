// Package config loads settings for the gateway command-line tool from a
// config file, GATEWAY_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	gateway "github.com/gateway-license/gateway-go"
)

// Config holds all configuration for the CLI.
type Config struct {
	APIKey      string          `mapstructure:"api_key"`
	BaseURL     string          `mapstructure:"base_url"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	LicenseKey  string          `mapstructure:"license_key"`
	HWID        string          `mapstructure:"hwid"`
	ProductID   string          `mapstructure:"product_id"`
	MachineName string          `mapstructure:"machine_name"`
	Heartbeat   HeartbeatConfig `mapstructure:"heartbeat"`
	Log         LogConfig       `mapstructure:"log"`
}

// HeartbeatConfig holds heartbeat scheduler configuration.
type HeartbeatConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"api-key":            "api_key",
	"base-url":           "base_url",
	"timeout":            "timeout",
	"license-key":        "license_key",
	"hwid":               "hwid",
	"product-id":         "product_id",
	"machine-name":       "machine_name",
	"heartbeat-interval": "heartbeat.interval",
	"log-level":          "log.level",
	"log-format":         "log.format",
}

// Load loads configuration from configPath (or gateway.yaml in the working
// directory or ~/.gateway), the environment and any flags in flags that were
// set explicitly. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gateway")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gateway")
	}

	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	// Read config file (optional - not an error if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", gateway.DefaultBaseURL)
	v.SetDefault("timeout", gateway.DefaultTimeout)
	v.SetDefault("license_key", "")
	v.SetDefault("hwid", "")
	v.SetDefault("product_id", "")
	v.SetDefault("machine_name", "")
	v.SetDefault("heartbeat.interval", gateway.DefaultHeartbeatInterval)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// Validate validates the configuration. The API key is checked by the SDK
// when the client is built.
func Validate(cfg *Config) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.Heartbeat.Interval <= 0 {
		return fmt.Errorf("heartbeat.interval must be positive, got %s", cfg.Heartbeat.Interval)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format)
	}

	return nil
}

// ClientOptions translates the configuration into SDK client options.
func (c *Config) ClientOptions() []gateway.ClientOption {
	return []gateway.ClientOption{
		gateway.WithBaseURL(c.BaseURL),
		gateway.WithTimeout(c.Timeout),
	}
}
