package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/pkg/config"
)

// ─── Load ────────────────────────────────────────────────────────────────────

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 60*time.Second, cfg.Store.CacheTTL)
	assert.Equal(t, 1024, cfg.Store.CacheMaxEntries)
	assert.Equal(t, 5, cfg.Store.LowStockThreshold)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, domain.DefaultPolicies(), cfg.Policies)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("STOCK_MISSING_PRODUCT_POLICY", "abort")
	t.Setenv("REVERSAL_POLICY", "ABORT")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.Store.CacheTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, domain.PolicyAbort, cfg.Policies.MissingProduct)
	assert.Equal(t, domain.PolicyAbort, cfg.Policies.Reversal)
	assert.Equal(t, domain.PolicyAbort, cfg.Policies.StockApply)
	assert.Equal(t, domain.PolicyAbort, cfg.Policies.SalesRecord)
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"driver desconocido", "STORE_DRIVER", "sqlite"},
		{"política desconocida", "SALES_RECORD_POLICY", "retry"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

// ─── DSN ─────────────────────────────────────────────────────────────────────

func TestDBConfig_CadenaDeConexion(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "billstock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/billstock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@h/x"
	assert.Equal(t, "postgres://u:p@h/x", c.ConnectionString())
}
