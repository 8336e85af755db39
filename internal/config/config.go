package config

import (
	"commute-eta-service/internal/platform/httpx"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModeGeocode   = "geocode"
	ModeWhitelist = "whitelist"

	PlacesBuiltin  = "builtin"
	PlacesFile     = "file"
	PlacesPostgres = "postgres"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`

	ORSAPIKey      string   `mapstructure:"ors_api_key"`
	ORSBaseURL     string   `mapstructure:"ors_base_url"`
	ORSProfiles    []string `mapstructure:"ors_profiles"`
	GeocodeCountry string   `mapstructure:"geocode_country"`

	NominatimBaseURL   string `mapstructure:"nominatim_base_url"`
	NominatimUserAgent string `mapstructure:"nominatim_user_agent"`
	OSRMBaseURL        string `mapstructure:"osrm_base_url"`

	GoogleMapsAPIKey  string `mapstructure:"google_maps_api_key"`
	GoogleMapsBaseURL string `mapstructure:"google_maps_base_url"`

	PlacesSource string `mapstructure:"places_source"`
	PlacesPath   string `mapstructure:"places_path"`
	DatabaseURL  string `mapstructure:"database_url"`

	RetryMax       int           `mapstructure:"retry_max"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	RetryMaxDelay  time.Duration `mapstructure:"retry_max_delay"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"port":                 "8080",
	"mode":                 ModeGeocode,
	"ors_api_key":          "",
	"ors_base_url":         "https://api.openrouteservice.org",
	"ors_profiles":         []string{"driving-car", "driving-hgv", "cycling-regular"},
	"geocode_country":      "",
	"nominatim_base_url":   "https://nominatim.openstreetmap.org",
	"nominatim_user_agent": "commute-eta-service/1.0",
	"osrm_base_url":        "https://router.project-osrm.org",
	"google_maps_api_key":  "",
	"google_maps_base_url": "https://maps.googleapis.com/maps/api",
	"places_source":        PlacesBuiltin,
	"places_path":          "data/places.json",
	"database_url":         "",
	"retry_max":            httpx.DefaultPolicy().MaxRetries,
	"retry_base_delay":     httpx.DefaultPolicy().BaseDelay,
	"retry_max_delay":      httpx.DefaultPolicy().MaxDelay,
	"log_level":            "info",
	"log_format":           "text",
}

// LoadDotEnv loads .env into the process environment. A missing file is not
// an error; the returned bool reports whether one was read.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load resolves configuration from the environment, then an optional YAML
// file named by CONFIG_FILE, then defaults. ORS_API_KEY is mandatory.
func Load() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ORSAPIKey) == "" {
		return errors.New("ORS_API_KEY is required")
	}

	switch c.Mode {
	case ModeGeocode, ModeWhitelist:
	default:
		return fmt.Errorf("MODE must be %q or %q, got %q", ModeGeocode, ModeWhitelist, c.Mode)
	}

	switch c.PlacesSource {
	case PlacesBuiltin, PlacesFile:
	case PlacesPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when PLACES_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown PLACES_SOURCE %q", c.PlacesSource)
	}

	if c.RetryMax < 0 {
		return fmt.Errorf("RETRY_MAX must not be negative, got %d", c.RetryMax)
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
