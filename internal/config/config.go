package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/allinone-plumbing/internal/infra/mail"
	"github.com/xavierca1/allinone-plumbing/internal/usecase"
)

const (
	DefaultBusinessPhone = "(305) 555-0100"
	DefaultQuoteAPIURL   = "http://localhost:8080/api/quote"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	SentryDSN string

	MailProvider   string
	MailFrom       string
	OrgEmail       string
	ResendAPIKey   string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	SendGridAPIKey string
	AWSRegion      string

	RabbitMQURL string
	RedisURL    string

	QuoteRateLimit      int
	QuoteRateWindow     time.Duration
	QuoteServerBotCheck bool
	QuoteMinFillTime    time.Duration
	// Proxies in front of the API that append to X-Forwarded-For.
	QuoteTrustedProxyHops int

	CORSAllowedOrigins []string

	BusinessPhone string
	GoogleAdsID   string
	QuoteAPIURL   string
}

// Load reads configuration from the environment. Call godotenv.Load first
// when a .env file should be honored.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		SentryDSN: getEnv("SENTRY_DSN", ""),

		MailProvider:   getEnv("MAIL_PROVIDER", ""),
		MailFrom:       getEnv("MAIL_FROM", usecase.DefaultQuoteSender),
		OrgEmail:       getEnv("ORG_EMAIL", usecase.DefaultQuoteRecipient),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPass:       getEnv("SMTP_PASS", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		QuoteRateLimit:        getEnvAsInt("QUOTE_RATE_LIMIT", 10),
		QuoteRateWindow:       getEnvAsDuration("QUOTE_RATE_WINDOW", time.Minute),
		QuoteServerBotCheck:   getEnvAsBool("QUOTE_SERVER_BOT_CHECK", false),
		QuoteMinFillTime:      getEnvAsDuration("QUOTE_MIN_FILL_TIME", usecase.DefaultMinFillTime),
		QuoteTrustedProxyHops: getEnvAsInt("QUOTE_TRUSTED_PROXY_HOPS", 0),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		BusinessPhone: getEnv("BUSINESS_PHONE", DefaultBusinessPhone),
		GoogleAdsID:   getEnv("GOOGLE_ADS_ID", ""),
		QuoteAPIURL:   getEnv("QUOTE_API_URL", DefaultQuoteAPIURL),
	}
}

// Mail returns the subset the delivery adapter factory needs.
func (c *Config) Mail() mail.Config {
	return mail.Config{
		Provider:       c.MailProvider,
		ResendAPIKey:   c.ResendAPIKey,
		SendGridAPIKey: c.SendGridAPIKey,
		SMTPHost:       c.SMTPHost,
		SMTPPort:       c.SMTPPort,
		SMTPUser:       c.SMTPUser,
		SMTPPass:       c.SMTPPass,
		AWSRegion:      c.AWSRegion,
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
