// Package config provides configuration loading utilities.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	pkglog "github.com/cormorant-labs/batchllm/pkg/log"
	"github.com/spf13/viper"
)

//go:embed config.default.yaml
var defaultConfigYAML []byte

// LoadConfig loads configuration with priority: env vars > config.yaml > embedded default.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(defaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to merge config.yaml: %w", err)
		}
	}

	v.SetEnvPrefix("BATCHLLM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("llm.api_key", "OPENAI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoadConfig loads configuration and panics on error.
func MustLoadConfig() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logCfg := pkglog.Config{
		Level:     pkglog.LogLevel(cfg.Logging.Level),
		Format:    pkglog.LogFormat(cfg.Logging.Format),
		AddSource: cfg.Logging.AddSource,
		Output:    os.Stdout,
	}
	pkglog.InitWithConfig(logCfg)

	slog.Debug("configuration loaded", slog.Any("config", cfg))
	return cfg
}
