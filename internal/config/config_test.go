package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "slika-uploads", cfg.StorageBucket)
	assert.Equal(t, 40, cfg.FeedPageSize)
	assert.Equal(t, 50, cfg.SearchPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, time.Minute, cfg.ViewCacheTTL)
	assert.Equal(t, "slika:revalidate", cfg.RevalidateChannel)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 4, cfg.NotifierWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IdentitySyncEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("VIEW_CACHE_TTL", "5m")
	t.Setenv("FEED_PAGE_SIZE", "12")
	t.Setenv("IDENTITY_SECRET_KEY", "sk_test")
	t.Setenv("IDENTITY_API_URL", "https://idp.example.test/v1/")

	cfg := Load()

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.ViewCacheTTL)
	assert.Equal(t, 12, cfg.FeedPageSize)
	assert.True(t, cfg.IdentitySyncEnabled())
	assert.Equal(t, "https://idp.example.test/v1", cfg.IdentityAPIURL)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseDuration("nope", 3*time.Second))
	assert.Equal(t, 2*time.Hour, parseDuration("2h", time.Second))
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "slika", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=slika port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
