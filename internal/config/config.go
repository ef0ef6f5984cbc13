// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP API listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; empty until DB is wired.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AccessURLBase is the public base URL prefixed to minted session access paths (e.g. https://safeguard.example.com).
	AccessURLBase string `mapstructure:"ACCESS_URL_BASE"`
	// SessionTTL is the emergency session lifetime (e.g. "24h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// AutoStartTracking starts location tracking when the server comes up.
	AutoStartTracking bool `mapstructure:"AUTO_START_TRACKING"`
	// SilentMode drops the confirmation footer from composed messages.
	SilentMode bool `mapstructure:"SILENT_MODE"`
	// BackgroundLocation keeps accepting location samples while no timer or session is active.
	BackgroundLocation bool `mapstructure:"BACKGROUND_LOCATION"`
	// AIMonitoring gates threat assessment; when false the analyzer is never invoked.
	AIMonitoring bool `mapstructure:"AI_MONITORING"`
	// AutoRecord starts a recording (metadata only; capture is external) on every emergency trigger.
	AutoRecord bool `mapstructure:"AUTO_RECORD"`
	// EmergencyTimeoutSeconds is the default safety-timer duration when the client does not pass one.
	EmergencyTimeoutSeconds int `mapstructure:"EMERGENCY_TIMEOUT_SECONDS"`

	// Alert pipeline (optional). When Kafka brokers are set, the server publishes alert payloads to Kafka.
	// AlertKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	AlertKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// AlertKafkaTopic is the Kafka topic for alert payloads (default safeguard-alerts).
	AlertKafkaTopic string `mapstructure:"ALERT_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the delivery worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// WebhookURL is the delivery sink the worker posts alert payloads to (e.g. a messaging bridge).
	WebhookURL string `mapstructure:"WEBHOOK_URL"`

	// OTLPEndpoint enables OpenTelemetry export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ACCESS_URL_BASE", "https://safeguard.local")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("AUTO_START_TRACKING", false)
	v.SetDefault("SILENT_MODE", false)
	v.SetDefault("BACKGROUND_LOCATION", true)
	v.SetDefault("AI_MONITORING", true)
	v.SetDefault("AUTO_RECORD", true)
	v.SetDefault("EMERGENCY_TIMEOUT_SECONDS", 1800)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("ALERT_KAFKA_TOPIC", "safeguard-alerts")
	v.SetDefault("KAFKA_GROUP_ID", "safeguard-delivery-worker")
	v.SetDefault("WEBHOOK_URL", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.EmergencyTimeoutSeconds <= 0 {
		return nil, errors.New("config: EMERGENCY_TIMEOUT_SECONDS must be positive")
	}
	if strings.TrimSpace(cfg.AccessURLBase) == "" {
		return nil, errors.New("config: ACCESS_URL_BASE must be set")
	}

	return &cfg, nil
}

// SessionLifetime parses SessionTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionLifetime() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// AlertKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the alert pipeline is enabled (non-empty list) and to create the producer.
func (c *Config) AlertKafkaBrokersList() []string {
	if c == nil || c.AlertKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.AlertKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
