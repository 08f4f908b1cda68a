package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.StoreDriver)
	assert.Equal(t, 3001, cfg.HTTP.Port)
	assert.Equal(t, "0.10", cfg.Billing.InvoiceTaxRate.StringFixed(2))
	assert.Equal(t, "0.08", cfg.Billing.TransactionTaxRate.StringFixed(2))
	assert.Equal(t, 30, cfg.Billing.DueDays)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BILLING_INVOICE_TAX_RATE", "0.19")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.StoreDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.19", cfg.Billing.InvoiceTaxRate.StringFixed(2))
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("tax rate", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("BILLING_TRANSACTION_TAX_RATE", "abc")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss", DBName: "pos_admin", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss@db:5432/pos_admin?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
