package app

import (
	"commute-eta-service/internal/adapters/geocoding"
	"commute-eta-service/internal/adapters/repositories"
	"commute-eta-service/internal/adapters/routing"
	"commute-eta-service/internal/config"
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/db"
	"commute-eta-service/internal/platform/httpx"
	"commute-eta-service/internal/platform/logger"
	"commute-eta-service/internal/ports"
	"commute-eta-service/internal/services"
	"context"
	"fmt"
	"net/http"
	"time"
)

// App holds the wired engine shared by the HTTP server and the CLI.
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Service *services.CommuteService
}

// Build wires concrete adapters behind ports. All providers share one
// retrying HTTP client; the whitelist is loaded once and frozen.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	client := httpx.NewClient(
		&http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		httpx.Policy{
			MaxRetries: cfg.RetryMax,
			BaseDelay:  cfg.RetryBaseDelay,
			MaxDelay:   cfg.RetryMaxDelay,
		},
	)

	policy := client.Policy()
	log.WithField("max_retries", policy.MaxRetries).
		WithField("base_delay", policy.BaseDelay).
		Debug("retrying transport configured")

	locations, err := buildLocationResolver(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	routes, err := buildRouteResolver(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	places, err := loadWhitelist(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	log.WithField("count", places.Len()).WithField("source", cfg.PlacesSource).Info("place whitelist loaded")

	svc, err := services.NewCommuteService(locations, routes, places)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	return &App{Config: cfg, Log: log, Service: svc}, nil
}

func buildLocationResolver(cfg *config.Config, client *httpx.Client) (*services.LocationResolver, error) {
	ors, err := geocoding.NewORSGeocoder(
		client,
		cfg.ORSAPIKey,
		geocoding.WithORSBaseURL(cfg.ORSBaseURL),
		geocoding.WithORSCountry(cfg.GeocodeCountry),
	)
	if err != nil {
		return nil, err
	}

	nominatim, err := geocoding.NewNominatimGeocoder(client, cfg.NominatimBaseURL, cfg.NominatimUserAgent)
	if err != nil {
		return nil, err
	}

	return services.NewLocationResolver(ors, nominatim)
}

func buildRouteResolver(cfg *config.Config, client *httpx.Client) (*services.RouteResolver, error) {
	ors, err := routing.NewORSDirections(client, cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.ORSProfiles)
	if err != nil {
		return nil, err
	}

	osrm, err := routing.NewOSRM(client, cfg.OSRMBaseURL)
	if err != nil {
		return nil, err
	}

	providers := []ports.RouteProvider{ors, osrm}

	if cfg.GoogleMapsAPIKey != "" {
		google, err := routing.NewGoogleDirections(client, cfg.GoogleMapsAPIKey, cfg.GoogleMapsBaseURL)
		if err != nil {
			return nil, err
		}
		providers = append(providers, google)
	}

	return services.NewRouteResolver(providers...)
}

func loadWhitelist(ctx context.Context, cfg *config.Config) (domain.Whitelist, error) {
	var repo ports.PlaceRepository

	switch cfg.PlacesSource {
	case config.PlacesFile:
		repo = repositories.NewJSONPlaceRepository(cfg.PlacesPath)
	case config.PlacesPostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return domain.Whitelist{}, err
		}
		defer conn.Close()
		repo = repositories.NewSQLPlaceRepository(conn)
	default:
		repo = repositories.NewStaticPlaceRepository(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	places, err := repo.ListPlaces(ctx)
	if err != nil {
		return domain.Whitelist{}, fmt.Errorf("load whitelist: %w", err)
	}

	return domain.NewWhitelist(places)
}
