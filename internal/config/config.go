package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	AccessTokenSecret   string
	RefreshTokenSecret  string
	AccessTokenTTLMin   int // minutes
	RefreshTokenTTLDays int // days
	ResetGrantTTLMin    int // minutes a verified forgot-password OTP stays redeemable

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins

	SentryDSN  string
	CronSecret string // guards the maintenance purge endpoint; empty disables it

	ProductRetentionHours int // soft-delete to purge-eligible window

	GatewayPort        string
	GatewayUpstreamURL string
	GatewayAnonRPM     int // anonymous requests/minute per client
	GatewayAuthRPM     int // authenticated requests/minute per client
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Sellers       string
	Shops         string
	Products      string
	DiscountCodes string
	SiteConfig    string
	OtpState      string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "6001"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Sellers:       getEnv("DYNAMO_TABLE_SELLERS", "sellers"),
			Shops:         getEnv("DYNAMO_TABLE_SHOPS", "shops"),
			Products:      getEnv("DYNAMO_TABLE_PRODUCTS", "products"),
			DiscountCodes: getEnv("DYNAMO_TABLE_DISCOUNT_CODES", "discount_codes"),
			SiteConfig:    getEnv("DYNAMO_TABLE_SITE_CONFIG", "site_config"),
			OtpState:      getEnv("DYNAMO_TABLE_OTP_STATE", "otp_state"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "commerce-product-images"),

		AccessTokenSecret:   getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret:  getEnv("REFRESH_TOKEN_SECRET", ""),
		AccessTokenTTLMin:   getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 15),
		RefreshTokenTTLDays: getEnvInt("REFRESH_TOKEN_TTL_DAYS", 7),
		ResetGrantTTLMin:    getEnvInt("RESET_GRANT_TTL_MINUTES", 10),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		SentryDSN:  getEnv("SENTRY_DSN", ""),
		CronSecret: getEnv("CRON_SECRET", ""),

		ProductRetentionHours: getEnvInt("PRODUCT_RETENTION_HOURS", 24),

		GatewayPort:        getEnv("GATEWAY_PORT", "8080"),
		GatewayUpstreamURL: getEnv("GATEWAY_UPSTREAM_URL", "http://localhost:6001"),
		GatewayAnonRPM:     getEnvInt("GATEWAY_ANON_RPM", 100),
		GatewayAuthRPM:     getEnvInt("GATEWAY_AUTH_RPM", 1000),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
