package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Analytics AnalyticsConfig
	Suggest   SuggestConfig
	Monitor   MonitorConfig
	Logging   LoggingConfig
}

// ServerConfig holds the facade server configuration. WriteTimeout
// defaults to zero because backtest responses can outlive any fixed
// write budget.
type ServerConfig struct {
	Port         string `validate:"required"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AnalyticsConfig holds the upstream analytics service configuration.
// The base URL is injected here and nowhere else.
type AnalyticsConfig struct {
	BaseURL          string `validate:"required,url"`
	SuggestTimeout   time.Duration
	StockInfoTimeout time.Duration
	ScreenTimeout    time.Duration
	HealthTimeout    time.Duration
}

// SuggestConfig holds the typeahead controller tuning
type SuggestConfig struct {
	Debounce     time.Duration
	FetchTimeout time.Duration
	BlurGrace    time.Duration
	UpdateBuffer int
}

// MonitorConfig holds the upstream health monitor configuration
type MonitorConfig struct {
	Schedule    string
	StartupWait time.Duration
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string
}

// LoadConfig loads the configuration from file and environment
// variables, then validates it
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "0")
	v.SetDefault("server.idleTimeout", "120s")

	// Analytics service defaults
	v.SetDefault("analytics.baseURL", "http://localhost:8000")
	v.SetDefault("analytics.suggestTimeout", "5s")
	v.SetDefault("analytics.stockInfoTimeout", "15s")
	v.SetDefault("analytics.screenTimeout", "30s")
	v.SetDefault("analytics.healthTimeout", "5s")

	// Suggestion controller defaults
	v.SetDefault("suggest.debounce", "300ms")
	v.SetDefault("suggest.fetchTimeout", "5s")
	v.SetDefault("suggest.blurGrace", "200ms")
	v.SetDefault("suggest.updateBuffer", 8)

	// Health monitor defaults
	v.SetDefault("monitor.schedule", "@every 30s")
	v.SetDefault("monitor.startupWait", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
