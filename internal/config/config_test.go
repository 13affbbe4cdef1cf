package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SHOP_TIMEZONE", "")
	t.Setenv("SLOT_GRANULARITY_MIN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cfg.ShopTimezone)
	assert.Equal(t, 15, cfg.Booking.SlotGranularityMin)
	assert.Equal(t, 31, cfg.Booking.MaxRangeDays)
	assert.Equal(t, 5*time.Second, cfg.Booking.AvailabilityTimeout)
	assert.Equal(t, ":8080", (&Config{ServerPort: "8080"}).Addr())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SHOP_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("SLOT_GRANULARITY_MIN", "10")
	t.Setenv("AVAILABILITY_CACHE_TTL", "2m")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://navalha.app, ,https://admin.navalha.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "America/Sao_Paulo", cfg.ShopTimezone)
	assert.Equal(t, 10, cfg.Booking.SlotGranularityMin)
	assert.Equal(t, 2*time.Minute, cfg.AvailabilityCacheTTL)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://navalha.app", "https://admin.navalha.app"}, cfg.CORSAllowedOrigins)
}

func TestLoad_YAMLOverlayExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jwt_secret: ${TEST_JWT_SECRET}
shop_timezone: Europe/Lisbon
booking:
  slot_granularity_min: 20
  default_lead_min: 0
  max_range_days: 14
  slot_layout: 12h
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "Europe/Lisbon", cfg.ShopTimezone)
	assert.Equal(t, 20, cfg.Booking.SlotGranularityMin)
	assert.Equal(t, 0, cfg.Booking.DefaultLeadMin)
	assert.Equal(t, 14, cfg.Booking.MaxRangeDays)
	assert.Equal(t, "12h", cfg.Booking.SlotLayout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("SHOP_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SHOP_TIMEZONE", "UTC")
	t.Setenv("SLOT_GRANULARITY_MIN", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("SLOT_GRANULARITY_MIN", "15")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
