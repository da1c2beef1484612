// Package config loads the proxy configuration from flags, environment
// variables (EDU_ prefix) and an optional .env file.
package config

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/edu-api-proxy/internal/directory"
	"github.com/Sternrassler/edu-api-proxy/pkg/client"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "EDU"

// Config is the proxy configuration.
type Config struct {
	Addr             string `mapstructure:"addr" validate:"required"`
	LogLevel         string `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	LogPretty        bool   `mapstructure:"log_pretty"`
	UserAgent        string `mapstructure:"user_agent" validate:"required"`
	ThanaBaseURL     string `mapstructure:"thana_base_url" validate:"required,url"`
	InstituteBaseURL string `mapstructure:"institute_base_url" validate:"required,url"`
	RedisURL         string `mapstructure:"redis_url" validate:"omitempty,url"`
	ExportDir        string `mapstructure:"export_dir" validate:"required"`
	WarmOnStart      bool   `mapstructure:"warm_on_start"`
	WarmWorkers      int    `mapstructure:"warm_workers" validate:"min=1,max=32"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("user_agent", client.DefaultUserAgent)
	v.SetDefault("thana_base_url", directory.DefaultThanaBaseURL)
	v.SetDefault("institute_base_url", directory.DefaultInstituteBaseURL)
	v.SetDefault("redis_url", "")
	v.SetDefault("export_dir", ".")
	v.SetDefault("warm_on_start", false)
	v.SetDefault("warm_workers", 4)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
