package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	MigrationsPath    string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	CORSAllowedOrigins []string

	// Rate limiting; formats follow ulule/limiter, e.g. "5-M"
	RedisURL       string
	LoginRateLimit string
	OTPRateLimit   string

	// OTP
	MaxOTPTry         int
	OTPExpiryDuration time.Duration
	OTPMaxOutDuration time.Duration

	// Conversion rate refresh
	OpenExchangeAppID     string
	OpenExchangeBaseURL   string
	RatesRefreshInterval  time.Duration // Zero disables the in-server ticker
	RatesFetchConcurrency int
	HTTPClientTimeout     time.Duration
	RatesMaxRetries       int
	RatesInitialBackoff   time.Duration

	// Observability
	PosthogAPIKey            string
	OTELExporterOTLPEndpoint string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "iswift-backend")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	v.SetDefault("OTP_RATE_LIMIT", "5-M")
	v.SetDefault("MAX_OTP_TRY", 3)
	v.SetDefault("OTP_EXPIRY_DURATION", "15m")
	v.SetDefault("OTP_MAX_OUT_DURATION", "25m")
	v.SetDefault("OPEN_EXCHANGE_APP_ID", "")
	v.SetDefault("OPEN_EXCHANGE_BASE_URL", "https://openexchangerates.org/api")
	v.SetDefault("RATES_REFRESH_INTERVAL", "0s")
	v.SetDefault("RATES_FETCH_CONCURRENCY", 4)
	v.SetDefault("HTTP_CLIENT_TIMEOUT", "10s")
	v.SetDefault("RATES_MAX_RETRIES", 3)
	v.SetDefault("RATES_INITIAL_BACKOFF", "500ms")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:              v.GetString("PGSQL_URL"),
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:           v.GetString("MIGRATIONS_PATH"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		JWTIssuer:                v.GetString("JWT_ISSUER"),
		RedisURL:                 v.GetString("REDIS_URL"),
		LoginRateLimit:           v.GetString("LOGIN_RATE_LIMIT"),
		OTPRateLimit:             v.GetString("OTP_RATE_LIMIT"),
		MaxOTPTry:                v.GetInt("MAX_OTP_TRY"),
		OpenExchangeAppID:        v.GetString("OPEN_EXCHANGE_APP_ID"),
		OpenExchangeBaseURL:      strings.TrimRight(v.GetString("OPEN_EXCHANGE_BASE_URL"), "/"),
		RatesFetchConcurrency:    v.GetInt("RATES_FETCH_CONCURRENCY"),
		RatesMaxRetries:          v.GetInt("RATES_MAX_RETRIES"),
		PosthogAPIKey:            v.GetString("POSTHOG_API_KEY"),
		OTELExporterOTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		GoogleClientID:           v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:       v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:        v.GetString("GOOGLE_REDIRECT_URL"),
	}

	cfg.JWTExpiryDuration = durationOr(v, "JWT_EXPIRY_DURATION", time.Hour)
	cfg.OTPExpiryDuration = durationOr(v, "OTP_EXPIRY_DURATION", 15*time.Minute)
	cfg.OTPMaxOutDuration = durationOr(v, "OTP_MAX_OUT_DURATION", 25*time.Minute)
	cfg.RatesRefreshInterval = durationOr(v, "RATES_REFRESH_INTERVAL", 0)
	cfg.HTTPClientTimeout = durationOr(v, "HTTP_CLIENT_TIMEOUT", 10*time.Second)
	cfg.RatesInitialBackoff = durationOr(v, "RATES_INITIAL_BACKOFF", 500*time.Millisecond)

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.MaxOTPTry < 1 {
		log.Printf("Warning: Invalid value for MAX_OTP_TRY (%d). Defaulting to 3.\n", cfg.MaxOTPTry)
		cfg.MaxOTPTry = 3
	}
	if cfg.RatesFetchConcurrency < 1 {
		cfg.RatesFetchConcurrency = 1
	}
	if cfg.RatesMaxRetries < 0 {
		cfg.RatesMaxRetries = 0
	}
	if cfg.OpenExchangeAppID == "" {
		log.Println("Warning: OPEN_EXCHANGE_APP_ID not set. Conversion rates will not be refreshed.")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		log.Println("Warning: Google OAuth environment variables not fully set. Google sign-in will not function.")
	}

	return cfg
}

// durationOr parses key with time.ParseDuration, falling back to def on bad input.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
