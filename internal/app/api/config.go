package api

import (
	"github.com/kelseyhightower/envconfig"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string `envconfig:"PORT" default:"8080"`
	PostgresDSN       string `envconfig:"POSTGRES_DSN"`
	RedisAddr         string `envconfig:"REDIS_ADDR"`
	TemporalAddress   string `envconfig:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `envconfig:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `envconfig:"TEMPORAL_DISABLED"`

	PaymentGatewayURL    string `envconfig:"PAYMENT_GATEWAY_URL"`
	PaymentGatewayAPIKey string `envconfig:"PAYMENT_GATEWAY_API_KEY"`
	CatalogURL           string `envconfig:"CATALOG_URL"`

	// SessionTTLMinutes bounds how long an unconfirmed checkout session
	// survives before the purger removes it.
	SessionTTLMinutes int `envconfig:"SESSION_TTL_MINUTES" default:"60"`
	// FraudFirstOrderCeiling is the first-order amount heuristic threshold
	// in minor units.
	FraudFirstOrderCeiling int64 `envconfig:"FRAUD_FIRST_ORDER_CEILING" default:"500000"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if cfg.TemporalNamespace == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	return cfg, nil
}
