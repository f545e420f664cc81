package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, 100, cfg.WooCommerce.PageSize)
	assert.Equal(t, "CHILLED", cfg.Sync.StorageType)
	assert.Equal(t, "catalog.sync.events", cfg.Kafka.EventsTopic)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WC_PAGE_SIZE", "25")
	t.Setenv("WC_REQUEST_TIMEOUT", "5s")
	t.Setenv("WC_RATE_LIMIT", "0.5")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, 25, cfg.WooCommerce.PageSize)
	assert.Equal(t, 5*time.Second, cfg.WooCommerce.RequestTimeout)
	assert.Equal(t, 0.5, cfg.WooCommerce.RateLimit)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
}
