package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Exchange rate provider
	FxAPIURL      string
	FxAPIKey      string
	FxCacheTTL    time.Duration
	FxHTTPTimeout time.Duration

	// Bulk batch executor
	BulkWorkerCount  int
	BulkPollInterval time.Duration

	// Money movement units of work
	TxnMaxRetries  int
	TxnLockTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("FX_API_URL", "")
	viper.SetDefault("FX_API_KEY", "")
	viper.SetDefault("FX_CACHE_TTL", "2h")
	viper.SetDefault("FX_HTTP_TIMEOUT", "10s")
	viper.SetDefault("BULK_WORKER_COUNT", 4)
	viper.SetDefault("BULK_POLL_INTERVAL", "30s")
	viper.SetDefault("TXN_MAX_RETRIES", 3)
	viper.SetDefault("TXN_LOCK_TIMEOUT", "5s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.FxAPIURL = viper.GetString("FX_API_URL")
	if cfg.FxAPIURL == "" {
		log.Println("Warning: FX_API_URL environment variable not set. Currency conversion will be unavailable.")
	}
	cfg.FxAPIKey = viper.GetString("FX_API_KEY")
	cfg.FxCacheTTL = durationOrDefault("FX_CACHE_TTL", 2*time.Hour)
	cfg.FxHTTPTimeout = durationOrDefault("FX_HTTP_TIMEOUT", 10*time.Second)

	cfg.BulkWorkerCount = viper.GetInt("BULK_WORKER_COUNT")
	if cfg.BulkWorkerCount <= 0 {
		cfg.BulkWorkerCount = 4
		log.Printf("Warning: Invalid BULK_WORKER_COUNT. Defaulting to %d.\n", cfg.BulkWorkerCount)
	}
	cfg.BulkPollInterval = durationOrDefault("BULK_POLL_INTERVAL", 30*time.Second)

	cfg.TxnMaxRetries = viper.GetInt("TXN_MAX_RETRIES")
	if cfg.TxnMaxRetries < 0 {
		cfg.TxnMaxRetries = 3
		log.Printf("Warning: Invalid TXN_MAX_RETRIES. Defaulting to %d.\n", cfg.TxnMaxRetries)
	}
	cfg.TxnLockTimeout = durationOrDefault("TXN_LOCK_TIMEOUT", 5*time.Second)

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
