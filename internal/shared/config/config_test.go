package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api", cfg.GetAPIBasePath())
	assert.Equal(t, 10.0, cfg.Pricing.DefaultCommissionRate)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.PaymentsEnabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_COMMISSION_RATE", "12.5")
	t.Setenv("JWT_EXPIRES_IN", "60")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CHECKOUT_CURRENCY", "EUR")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_x")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_x")
	t.Setenv("RATE_LIMIT_ENABLED", "not-a-bool")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.Equal(t, 12.5, cfg.Pricing.DefaultCommissionRate)
	assert.Equal(t, time.Minute, cfg.JWT.JWTExpiresIn)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.True(t, cfg.PaymentsEnabled())
	assert.True(t, cfg.RateLimit.Enabled, "invalid bool falls back to default")
}
