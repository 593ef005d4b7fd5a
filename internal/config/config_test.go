package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "MONGO_URI", "CART_STORE", "FREE_SHIPPING_THRESHOLD", "SEARCH_THROTTLE", "CORS_ORIGINS", "MAINTENANCE_MODE"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8080")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CartStoreMemory, cfg.CartStore)
	assert.Equal(t, 5000.0, cfg.FreeShippingThreshold)
	assert.Equal(t, 350.0, cfg.ShippingFee)
	assert.Equal(t, "LKR", cfg.Currency)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchThrottle)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.MaintenanceMode)
	assert.Equal(t, "system environment", cfg.EnvSource)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("CART_STORE", "")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "7500")
	t.Setenv("SHIPPING_FEE", "not-a-number")
	t.Setenv("SEARCH_THROTTLE", "1s")
	t.Setenv("MAINTENANCE_MODE", "true")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example ,")

	cfg := LoadConfig()

	assert.Equal(t, CartStoreMongo, cfg.CartStore, "mongo carts when a database is configured")
	assert.Equal(t, 7500.0, cfg.FreeShippingThreshold)
	assert.Equal(t, 350.0, cfg.ShippingFee)
	assert.Equal(t, time.Second, cfg.SearchThrottle)
	assert.True(t, cfg.MaintenanceMode)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
}
