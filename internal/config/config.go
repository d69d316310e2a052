package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session tokens
	JWTSecret string
	JWTExpiry time.Duration

	// Admin
	AdminHandle string

	// Discord
	DiscordToken            string
	DiscordAPIURL           string
	DiscordWarningChannelID string

	// Object storage
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3Region          string
	S3UseSSL          bool

	// Server
	Port           string
	CORSOrigins    string
	TrustedProxies []string
	LogLevel       string
	LogRetention   time.Duration
	SentryDSN      string
	AppEnv         string

	// Frontend
	FrontendPort     string
	BackendURL       string
	Host             string
	FrontendCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "chart_cyanvas"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "720h"), 720*time.Hour),

		AdminHandle: getEnv("ADMIN_HANDLE", ""),

		DiscordToken:            getEnv("DISCORD_TOKEN", ""),
		DiscordAPIURL:           getEnv("DISCORD_API_URL", "https://discord.com/api/v10"),
		DiscordWarningChannelID: getEnv("DISCORD_WARNING_CHANNEL_ID", ""),

		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3UseSSL:          parseBool(getEnv("S3_USE_SSL", "true")),

		Port:        getEnv("PORT", "3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		// The frontend forwards the browser's address in X-Forwarded-For.
		TrustedProxies: parseCSV(getEnv("TRUSTED_PROXIES", "127.0.0.1,::1")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogRetention:   parseDuration(getEnv("LOG_RETENTION", "720h"), 720*time.Hour),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		AppEnv:         getEnv("APP_ENV", "development"),

		FrontendPort:     getEnv("FRONTEND_PORT", "3100"),
		BackendURL:       strings.TrimSuffix(getEnv("BACKEND_URL", "http://localhost:3000"), "/"),
		Host:             strings.TrimSuffix(getEnv("HOST", "http://localhost:3100"), "/"),
		FrontendCacheTTL: parseDuration(getEnv("FRONTEND_CACHE_TTL", "10s"), 10*time.Second),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// DiscordEnabled reports whether warning notifications can be delivered.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordWarningChannelID != ""
}

func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
