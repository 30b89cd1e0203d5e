package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds everything the console needs at boot. Values come from an
// optional config.yaml plus SNOWCORE_* environment overrides.
//
// Note the two base URLs: the propagation scores are served by a separately
// deployed service, so the graph screen cannot assume the primary API host.
// Keeping both fields explicit makes the split visible instead of burying a
// hardcoded host in the graph client.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr" validate:"required"`

	APIBaseURL         string `mapstructure:"api_base_url" validate:"required,url"`
	PropagationBaseURL string `mapstructure:"propagation_base_url" validate:"required,url"`

	SensorInterval    time.Duration `mapstructure:"sensor_interval" validate:"required"`
	TelemetryInterval time.Duration `mapstructure:"telemetry_interval" validate:"required"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" validate:"required"`

	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" validate:"min=1"`
	RateLimitBurst     int `mapstructure:"rate_limit_burst" validate:"min=1"`

	// AlertWebhookURL receives feed down/recovered alerts. Empty disables
	// alerting.
	AlertWebhookURL string `mapstructure:"alert_webhook_url" validate:"omitempty,url"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("propagation_base_url", "http://localhost:8000")
	v.SetDefault("sensor_interval", time.Second)
	v.SetDefault("telemetry_interval", 5*time.Second)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("rate_limit_per_minute", 300)
	v.SetDefault("rate_limit_burst", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("alert_webhook_url", "")
}

// Load reads config.yaml from the given path (if present) and applies
// environment overrides. A missing file is not an error; invalid values are.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("SNOWCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
