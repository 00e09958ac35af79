package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string   `env:"SERVER_PORT" envDefault:"8080"`
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Storage
	DatabaseDriver             string `env:"DATABASE_DRIVER" envDefault:"firestore"` // firestore, mongo, memory
	FirebaseProject            string `env:"FIREBASE_PROJECT_ID"`
	FirebaseServiceAccountJSON string `env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	FirebaseServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	MongoURI                   string `env:"MONGO_URI"`
	MongoDatabase              string `env:"MONGO_DATABASE" envDefault:"MultiTaskDB"`

	// Auth
	JWTSecret string `env:"JWT_SECRET" envDefault:"your-secret-key"`
	JWTExpiry int64  `env:"JWT_EXPIRY" envDefault:"7200"` // 2 hours

	// Payment gateway
	PaymentProvider     string `env:"PAYMENT_PROVIDER" envDefault:"stripe"` // stripe, midtrans, sandbox
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	PaymentCurrency     string `env:"PAYMENT_CURRENCY" envDefault:"usd"`
	MidtransServerKey   string `env:"MIDTRANS_SERVER_KEY"`
	MidtransClientKey   string `env:"MIDTRANS_CLIENT_KEY"`
	MidtransEnvironment string `env:"MIDTRANS_ENVIRONMENT" envDefault:"sandbox"`

	// Coin economy
	CoinPolicy               string `env:"COIN_POLICY" envDefault:"multiplier"` // multiplier, explicit
	CoinsPerDollar           int64  `env:"COINS_PER_DOLLAR" envDefault:"10"`
	CoinsPerWithdrawalDollar int64  `env:"COINS_PER_WITHDRAWAL_DOLLAR" envDefault:"20"`
	MinWithdrawalCoins       int64  `env:"MIN_WITHDRAWAL_COINS" envDefault:"200"`
	SignupBonusBuyer         int64  `env:"SIGNUP_BONUS_BUYER" envDefault:"50"`
	SignupBonusWorker        int64  `env:"SIGNUP_BONUS_WORKER" envDefault:"10"`

	// Optional infrastructure
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	RabbitMQURL       string `env:"RABBITMQ_URL"`
	LedgerEventsQueue string `env:"LEDGER_EVENTS_QUEUE" envDefault:"ledger.events"`
	GCSBucket         string `env:"GCS_BUCKET"`
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the keys each selected driver or provider depends on.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "firestore":
		if c.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo driver")
		}
	case "memory":
		if c.IsProduction() {
			return fmt.Errorf("the memory driver cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.PaymentProvider {
	case "stripe":
		if c.IsProduction() && c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required")
		}
	case "midtrans":
		if c.IsProduction() && c.MidtransServerKey == "" {
			return fmt.Errorf("MIDTRANS_SERVER_KEY is required")
		}
	case "sandbox":
		if c.IsProduction() {
			return fmt.Errorf("the sandbox payment provider cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.PaymentProvider)
	}

	if c.CoinPolicy != "multiplier" && c.CoinPolicy != "explicit" {
		return fmt.Errorf("unknown COIN_POLICY %q", c.CoinPolicy)
	}

	if c.CoinsPerDollar <= 0 || c.CoinsPerWithdrawalDollar <= 0 {
		return fmt.Errorf("coin conversion rates must be positive")
	}

	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == "your-secret-key") {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}
