package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	SMS      SMSConfig
	Email    EmailConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Identity IdentityConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application settings
type AppConfig struct {
	Environment string

	// PublicBaseURL is the externally reachable base URL of this service,
	// used to build the voice status-callback URL handed to the telephony
	// provider.
	PublicBaseURL string

	// System-wide defaults used when a client has no outbound channel
	// identifier configured
	DefaultFromNumber string
	DefaultFromEmail  string
	DefaultFromName   string
}

// SMSConfig holds SMS provider settings
type SMSConfig struct {
	// Twilio (primary - also serves voice webhooks)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	// AWS SNS (fallback)
	SNSFrom string

	// AWS credentials (shared with email SES)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Enable failover from Twilio to SNS
	EnableFailover bool

	// Review-request rate limiting
	RateLimitEnabled    bool
	TenantHourlyLimit   int
	TenantDailyLimit    int
	RecipientDailyLimit int
}

// EmailConfig holds email provider settings
type EmailConfig struct {
	// AWS SES (primary)
	SESFrom     string
	SESFromName string

	// SendGrid (fallback)
	SendGridAPIKey string
	SendGridFrom   string

	// Enable failover from SES to SendGrid
	EnableFailover bool
}

// RedisConfig holds Redis settings for SMS rate limiting
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NATSConfig holds NATS settings
type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// IdentityConfig holds identity service settings
type IdentityConfig struct {
	URL    string
	APIKey string
}

// Load loads configuration from environment
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "reputation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Environment:       getEnv("ENVIRONMENT", "development"),
			PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			DefaultFromNumber: getEnv("DEFAULT_FROM_NUMBER", ""),
			DefaultFromEmail:  getEnv("DEFAULT_FROM_EMAIL", ""),
			DefaultFromName:   getEnv("DEFAULT_FROM_NAME", "Reputation Service"),
		},
		SMS: SMSConfig{
			TwilioAccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioFrom:          getEnv("TWILIO_FROM", ""),
			SNSFrom:             getEnv("AWS_SNS_FROM", ""),
			AWSRegion:           getEnv("AWS_REGION", ""),
			AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
			EnableFailover:      getEnvBool("SMS_FAILOVER_ENABLED", true),
			RateLimitEnabled:    getEnvBool("SMS_RATE_LIMIT_ENABLED", true),
			TenantHourlyLimit:   getEnvInt("SMS_TENANT_HOURLY_LIMIT", 100),
			TenantDailyLimit:    getEnvInt("SMS_TENANT_DAILY_LIMIT", 500),
			RecipientDailyLimit: getEnvInt("SMS_RECIPIENT_DAILY_LIMIT", 1),
		},
		Email: EmailConfig{
			SESFrom:        getEnv("AWS_SES_FROM", ""),
			SESFromName:    getEnv("AWS_SES_FROM_NAME", "Reputation Service"),
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			SendGridFrom:   getEnv("SENDGRID_FROM", ""),
			EnableFailover: getEnvBool("EMAIL_FAILOVER_ENABLED", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			MaxReconnects: getEnvInt("NATS_MAX_RECONNECTS", -1),
			ReconnectWait: time.Duration(getEnvInt("NATS_RECONNECT_WAIT_SECONDS", 2)) * time.Second,
		},
		Identity: IdentityConfig{
			URL:    getEnv("IDENTITY_SERVICE_URL", ""),
			APIKey: getEnv("IDENTITY_API_KEY", ""),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
