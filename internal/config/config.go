package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for packages that still read configuration directly.
var globalConfig *Config

// Config holds all environment backed configuration for persona-server.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Completion / image / speech provider
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	CompletionModel string        `env:"COMPLETION_MODEL" envDefault:"gpt-4o-mini"`
	ImageModel      string        `env:"IMAGE_MODEL" envDefault:"dall-e-3"`
	SpeechModel     string        `env:"SPEECH_MODEL" envDefault:"tts-1"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"120s"`

	// Billing
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	CheckoutSuccessURL  string `env:"CHECKOUT_SUCCESS_URL" envDefault:"http://localhost:3000/billing/success"`
	CheckoutCancelURL   string `env:"CHECKOUT_CANCEL_URL" envDefault:"http://localhost:3000/billing/cancel"`

	// Widget
	WidgetBaseURL string `env:"WIDGET_BASE_URL" envDefault:"http://localhost:8080"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"persona-server"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"persona"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.OpenAIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid OPENAI_BASE_URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.WidgetBaseURL); err != nil {
		return nil, fmt.Errorf("invalid WIDGET_BASE_URL: %w", err)
	}

	if cfg.StripeWebhookSecret != "" && cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET set without STRIPE_SECRET_KEY")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Environment = strings.ToLower(cfg.Environment)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// IsProduction reports whether error responses should omit debug detail.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetGlobal returns the global config instance.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
