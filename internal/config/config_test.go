package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "Rs.", cfg.Currency)
	assert.Equal(t, 1000, cfg.TaxRateBps)
	assert.True(t, cfg.AllowDirectBilling)
	assert.Equal(t, 15*time.Minute, cfg.UrgentAfter)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")
	t.Setenv("TAX_RATE_BPS", "1300")
	t.Setenv("ALLOW_DIRECT_BILLING", "false")
	t.Setenv("URGENT_AFTER_MIN", "20")
	t.Setenv("CURRENCY", "$")

	cfg := Load()
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1300, cfg.TaxRateBps)
	assert.False(t, cfg.AllowDirectBilling)
	assert.Equal(t, 20*time.Minute, cfg.UrgentAfter)
	assert.Equal(t, "$", cfg.Currency)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("TAX_RATE_BPS", "ten percent")
	cfg := Load()
	assert.Equal(t, 1000, cfg.TaxRateBps)
}
