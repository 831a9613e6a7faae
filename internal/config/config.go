package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal API.
type Config struct {
	AppName               string
	AppEnv                string
	AppPort               string
	DatabaseURL           string
	RedisURL              string
	NATSURL               string
	IdentityEventsSubject string
	SessionJWTSecret      string
	SignInPath            string
	WebhookRateLimit      int
	WebhookRateWindow     time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ATHLOS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Athlos Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("identity.events_subject", "identity.events")
	v.SetDefault("signin.path", "/sign-in")
	v.SetDefault("webhook.rate_limit", 60)
	v.SetDefault("webhook.rate_window", "1m")

	windowString := v.GetString("webhook.rate_window")
	if windowString == "" {
		windowString = "1m"
	}
	window, err := time.ParseDuration(windowString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid webhook rate window: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		NATSURL:               v.GetString("nats.url"),
		IdentityEventsSubject: v.GetString("identity.events_subject"),
		SessionJWTSecret:      v.GetString("session.jwt_secret"),
		SignInPath:            v.GetString("signin.path"),
		WebhookRateLimit:      v.GetInt("webhook.rate_limit"),
		WebhookRateWindow:     window,
	}

	if cfg.SessionJWTSecret == "" {
		return Config{}, fmt.Errorf("session jwt secret must be provided")
	}

	if cfg.WebhookRateLimit <= 0 {
		cfg.WebhookRateLimit = 60
	}

	return cfg, nil
}
