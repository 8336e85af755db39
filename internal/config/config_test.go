package config

import (
	"commute-eta-service/internal/platform/httpx"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresORSKey(t *testing.T) {
	t.Setenv("ORS_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORS_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ORS_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ModeGeocode, cfg.Mode)
	assert.Equal(t, []string{"driving-car", "driving-hgv", "cycling-regular"}, cfg.ORSProfiles)
	assert.Equal(t, PlacesBuiltin, cfg.PlacesSource)
	assert.Equal(t, 3, cfg.RetryMax)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, httpx.DefaultPolicy().MaxDelay, cfg.RetryMaxDelay)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ORS_API_KEY", "key")
	t.Setenv("MODE", ModeWhitelist)
	t.Setenv("ORS_PROFILES", "driving-car,cycling-regular")
	t.Setenv("RETRY_MAX", "1")
	t.Setenv("RETRY_BASE_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeWhitelist, cfg.Mode)
	assert.Equal(t, []string{"driving-car", "cycling-regular"}, cfg.ORSProfiles)
	assert.Equal(t, 1, cfg.RetryMax)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBaseDelay)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\nlog_level: debug\n"), 0o600))

	t.Setenv("ORS_API_KEY", "key")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	base := Config{ORSAPIKey: "k", Mode: ModeGeocode, PlacesSource: PlacesBuiltin}
	require.NoError(t, base.Validate())

	badMode := base
	badMode.Mode = "teleport"
	assert.Error(t, badMode.Validate())

	pgNoURL := base
	pgNoURL.PlacesSource = PlacesPostgres
	assert.Error(t, pgNoURL.Validate())

	negative := base
	negative.RetryMax = -1
	assert.Error(t, negative.Validate())
}

func TestGet(t *testing.T) {
	t.Setenv("COMMUTE_TEST_KEY", "value")

	assert.Equal(t, "value", Get("COMMUTE_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("COMMUTE_TEST_MISSING", "fallback"))
}
