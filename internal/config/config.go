package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Tokens   TokenConfig
	Security SecurityConfig
	SMTP     SMTPConfig
	App      AppConfig
	KYC      KYCConfig
	Jobs     JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	APIPrefix      string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds access and refresh token configuration
type JWTConfig struct {
	Secret        string
	Issuer        string
	Audience      string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// TokenConfig holds the lifetimes of single use tokens
type TokenConfig struct {
	EmailVerificationExpiry time.Duration
	PasswordResetExpiry     time.Duration
	ResetEnvelopeSecret     string
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
	BcryptCost           int
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
}

// AppConfig holds values used to build user facing links
type AppConfig struct {
	Name        string
	FrontendURL string
}

// KYCConfig selects the KYC provider at start-up
type KYCConfig struct {
	Provider string
	URL      string
	APIKey   string
	Timeout  time.Duration
}

// JobsConfig holds background job intervals
type JobsConfig struct {
	TokenCleanupInterval time.Duration
}

const (
	KYCProviderPassthrough = "passthrough"
	KYCProviderHTTP        = "http"
)

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", ""),
			APIPrefix:      getEnv("API_PREFIX", "/api/v1"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "investor_onboarding"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			Issuer:        getEnv("JWT_ISSUER", "investor-onboarding"),
			Audience:      getEnv("JWT_AUDIENCE", "investor-onboarding-app"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 30*24*time.Hour),
		},
		Tokens: TokenConfig{
			EmailVerificationExpiry: getEnvAsDuration("EMAIL_VERIFICATION_EXPIRY", 24*time.Hour),
			PasswordResetExpiry:     getEnvAsDuration("PASSWORD_RESET_EXPIRY", time.Hour),
			ResetEnvelopeSecret:     getEnv("RESET_ENVELOPE_SECRET", "change-this-reset-envelope-secret-in-production"),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			BcryptCost:           getEnvAsInt("BCRYPT_COST", 12),
		},
		SMTP: SMTPConfig{
			Enabled:  getEnvAsBool("SMTP_ENABLED", false),
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@investor-onboarding.local"),
			UseTLS:   getEnvAsBool("SMTP_USE_TLS", false),
			Timeout:  getEnvAsDuration("SMTP_TIMEOUT", 10*time.Second),
		},
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Investor Onboarding"),
			FrontendURL: strings.TrimRight(getEnv("APP_FRONTEND_URL", "http://localhost:3000"), "/"),
		},
		KYC: KYCConfig{
			Provider: strings.ToLower(getEnv("KYC_PROVIDER", KYCProviderPassthrough)),
			URL:      getEnv("KYC_PROVIDER_URL", ""),
			APIKey:   getEnv("KYC_PROVIDER_API_KEY", ""),
			Timeout:  getEnvAsDuration("KYC_PROVIDER_TIMEOUT", 15*time.Second),
		},
		Jobs: JobsConfig{
			TokenCleanupInterval: getEnvAsDuration("TOKEN_CLEANUP_INTERVAL", time.Hour),
		},
	}
}

// Validate reports configuration that would make the process unusable
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(c.Tokens.ResetEnvelopeSecret) < 32 {
		errs = append(errs, errors.New("RESET_ENVELOPE_SECRET must be at least 32 bytes"))
	}
	if c.JWT.AccessExpiry <= 0 || c.JWT.RefreshExpiry <= 0 {
		errs = append(errs, errors.New("JWT expiries must be positive"))
	}
	if c.Server.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.Server.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
		}
	}
	switch c.KYC.Provider {
	case KYCProviderPassthrough:
	case KYCProviderHTTP:
		if c.KYC.URL == "" {
			errs = append(errs, errors.New("KYC_PROVIDER_URL is required for the http provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown KYC_PROVIDER %q", c.KYC.Provider))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
