package routing

import (
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/httpx"
	"commute-eta-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOSRMBaseURL = "https://router.project-osrm.org"
	osrmTimeout        = 20 * time.Second
)

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// OSRM routes through an OSRM /route/v1 endpoint with full GeoJSON overview.
type OSRM struct {
	client  *httpx.Client
	baseURL string
	profile string
	timeout time.Duration
}

func NewOSRM(client *httpx.Client, baseURL string) (*OSRM, error) {
	if client == nil {
		return nil, errors.New("OSRM: http client is nil")
	}
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}

	return &OSRM{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
		timeout: osrmTimeout,
	}, nil
}

func (o *OSRM) Name() string { return "osrm" }

func (o *OSRM) Profiles() []string { return []string{o.profile} }

func (o *OSRM) Route(
	ctx context.Context,
	profile string,
	src domain.Coordinates,
	dst domain.Coordinates,
) (_ domain.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson",
		o.baseURL, profile, src.Lon, src.Lat, dst.Lon, dst.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("create route request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("decode route response: %w", err)
	}

	if len(parsed.Routes) == 0 {
		return domain.RouteResult{}, false, nil
	}

	r := parsed.Routes[0]
	geometry, err := lineString(r.Geometry.Coordinates)
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("route geometry: %w", err)
	}

	return domain.RouteResult{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        geometry,
		Provider:        o.Name(),
		Profile:         profile,
	}, true, nil
}
