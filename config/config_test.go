package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8090", cfg.Server.HTTPPort)
	assert.Equal(t, 1500*time.Millisecond, cfg.POS.ScanCooldown)
	assert.Equal(t, 7, cfg.POS.ExpiringWindowDays)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_API_URL", "https://store.example.com/api/")
	t.Setenv("POS_SCAN_COOLDOWN", "2s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("POS_FRESH_CATEGORY_PARITY", "true")

	cfg := LoadEnv()

	assert.Equal(t, "https://store.example.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.POS.ScanCooldown)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.True(t, cfg.POS.FreshCategoryParity)
}
