package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	// StoreDriver selects the persistence backend: dynamo, sqlite or postgres.
	StoreDriver string
	DatabaseDSN string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPrivateKeyPath      string
	JWTPublicKeyPath       string
	JWTExpiry              time.Duration
	RefreshTokenExpiryDays int

	// NotifierDriver selects how one-time codes are delivered: telegram, sns or log.
	NotifierDriver      string
	TelegramBotToken    string
	TelegramAPIURL      string
	TelegramTimeout     time.Duration
	TelegramLoginMaxAge time.Duration
	AdminTelegramIDs    []int64
	SNSRegion           string

	PhoneCodeTTL               time.Duration
	PhoneCodeSingleOutstanding bool
	PhoneCodeSweepCron         string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	HomepageCacheTTL time.Duration

	AllowedOrigins []string // CORS allowed origins
	RateLimitRPS   float64
	RateLimitBurst int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users      string
	Sessions   string
	PhoneCodes string
	HomeBlocks string
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RefreshTokenExpiry is the refresh token lifetime.
func (c *Config) RefreshTokenExpiry() time.Duration {
	return time.Duration(c.RefreshTokenExpiryDays) * 24 * time.Hour
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		DatabaseDSN: getEnv("DATABASE_DSN", "vape_shop.db"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:   getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			PhoneCodes: getEnv("DYNAMO_TABLE_PHONE_CODES", "phone_codes"),
			HomeBlocks: getEnv("DYNAMO_TABLE_HOME_BLOCKS", "home_blocks"),
		},

		JWTPrivateKeyPath:      getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:       getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:              getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		RefreshTokenExpiryDays: getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30),

		NotifierDriver:      getEnv("NOTIFIER_DRIVER", "log"),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:      getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		TelegramTimeout:     getEnvDuration("TELEGRAM_TIMEOUT", 10*time.Second),
		TelegramLoginMaxAge: getEnvDuration("TELEGRAM_LOGIN_MAX_AGE", 24*time.Hour),
		AdminTelegramIDs:    getEnvInt64List("ADMIN_TELEGRAM_IDS"),
		SNSRegion:           getEnv("SNS_REGION", "us-east-1"),

		PhoneCodeTTL:               getEnvDuration("PHONE_CODE_TTL", 10*time.Minute),
		PhoneCodeSingleOutstanding: getEnvBool("PHONE_CODE_SINGLE_OUTSTANDING", false),
		PhoneCodeSweepCron:         getEnv("PHONE_CODE_SWEEP_CRON", "*/15 * * * *"),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		HomepageCacheTTL: getEnvDuration("HOMEPAGE_CACHE_TTL", 5*time.Minute),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
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

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvInt64List parses a comma-separated list of integers, skipping junk.
func getEnvInt64List(key string) []int64 {
	var out []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}
