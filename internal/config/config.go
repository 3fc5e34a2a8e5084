package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth (session tokens are minted by the identity provider)
	JWTSecret      string
	AdminTokenHash string

	// Identity provider
	IdentityAPIURL    string
	IdentitySecretKey string

	// Object storage
	StorageDriver     string
	StorageURL        string
	StorageServiceKey string
	StorageBucket     string
	StoragePublicBase string
	UploadDir         string
	UploadMaxMB       int

	// View cache
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	ViewCacheTTL      time.Duration
	RevalidateChannel string

	// Activity events
	KafkaBrokers      []string
	KafkaTopic        string
	KafkaGroupID      string
	KafkaWriteTimeout time.Duration
	NotifierWorkers   int

	// Paging
	FeedPageSize   int
	SearchPageSize int
	MaxPageSize    int

	// Server
	Port        string
	CORSOrigins string
	BodyLimitMB int

	LogLevel     string
	LogRetention time.Duration
	SentryDSN    string
	Environment  string
}

func Load() *Config {
	v := viper.New()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "slika")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("IDENTITY_API_URL", "https://api.clerk.com/v1")

	v.SetDefault("STORAGE_DRIVER", "disk")
	v.SetDefault("STORAGE_BUCKET", "slika-uploads")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_MAX_MB", 50)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("VIEW_CACHE_TTL", "60s")
	v.SetDefault("REVALIDATE_CHANNEL", "slika:revalidate")

	v.SetDefault("KAFKA_TOPIC", "slika-activity")
	v.SetDefault("KAFKA_GROUP_ID", "slika-notifier")
	v.SetDefault("KAFKA_WRITE_TIMEOUT", "10s")
	v.SetDefault("NOTIFIER_WORKERS", 4)

	v.SetDefault("FEED_PAGE_SIZE", 40)
	v.SetDefault("SEARCH_PAGE_SIZE", 50)
	v.SetDefault("MAX_PAGE_SIZE", 100)

	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("BODY_LIMIT_MB", 64)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_RETENTION", "720h")
	v.SetDefault("ENVIRONMENT", "development")

	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	return &Config{
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		JWTSecret:      v.GetString("JWT_SECRET"),
		AdminTokenHash: v.GetString("ADMIN_TOKEN_HASH"),

		IdentityAPIURL:    strings.TrimRight(v.GetString("IDENTITY_API_URL"), "/"),
		IdentitySecretKey: v.GetString("IDENTITY_SECRET_KEY"),

		StorageDriver:     v.GetString("STORAGE_DRIVER"),
		StorageURL:        strings.TrimRight(v.GetString("STORAGE_URL"), "/"),
		StorageServiceKey: v.GetString("STORAGE_SERVICE_KEY"),
		StorageBucket:     v.GetString("STORAGE_BUCKET"),
		StoragePublicBase: strings.TrimRight(v.GetString("STORAGE_PUBLIC_BASE"), "/"),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		UploadMaxMB:       v.GetInt("UPLOAD_MAX_MB"),

		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		ViewCacheTTL:      parseDuration(v.GetString("VIEW_CACHE_TTL"), time.Minute),
		RevalidateChannel: v.GetString("REVALIDATE_CHANNEL"),

		KafkaBrokers:      parseCSV(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		KafkaGroupID:      v.GetString("KAFKA_GROUP_ID"),
		KafkaWriteTimeout: parseDuration(v.GetString("KAFKA_WRITE_TIMEOUT"), 10*time.Second),
		NotifierWorkers:   v.GetInt("NOTIFIER_WORKERS"),

		FeedPageSize:   v.GetInt("FEED_PAGE_SIZE"),
		SearchPageSize: v.GetInt("SEARCH_PAGE_SIZE"),
		MaxPageSize:    v.GetInt("MAX_PAGE_SIZE"),

		Port:        v.GetString("PORT"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		BodyLimitMB: v.GetInt("BODY_LIMIT_MB"),

		LogLevel:     v.GetString("LOG_LEVEL"),
		LogRetention: parseDuration(v.GetString("LOG_RETENTION"), 30*24*time.Hour),
		SentryDSN:    v.GetString("SENTRY_DSN"),
		Environment:  v.GetString("ENVIRONMENT"),
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

// IdentitySyncEnabled reports whether profile changes are pushed back to the provider.
func (c *Config) IdentitySyncEnabled() bool {
	return c.IdentitySecretKey != ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
