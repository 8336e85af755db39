package routing

import (
	"bytes"
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
	defaultORSBaseURL = "https://api.openrouteservice.org"
	orsRouteTimeout   = 25 * time.Second
)

// DefaultORSProfiles is tried in order until one yields a route.
var DefaultORSProfiles = []string{"driving-car", "driving-hgv", "cycling-regular"}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSDirections routes through OpenRouteService /v2/directions/{profile}/geojson.
// The provider is safe for concurrent use.
type ORSDirections struct {
	client   *httpx.Client
	apiKey   string
	baseURL  string
	profiles []string
	timeout  time.Duration
}

func NewORSDirections(client *httpx.Client, apiKey, baseURL string, profiles []string) (*ORSDirections, error) {
	if client == nil {
		return nil, errors.New("ORS directions: http client is nil")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS directions: api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}

	cleaned := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultORSProfiles...)
	}

	return &ORSDirections{
		client:   client,
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		profiles: cleaned,
		timeout:  orsRouteTimeout,
	}, nil
}

func (o *ORSDirections) Name() string { return "openrouteservice" }

func (o *ORSDirections) Profiles() []string {
	out := make([]string, len(o.profiles))
	copy(out, o.profiles)
	return out
}

func (o *ORSDirections) Route(
	ctx context.Context,
	profile string,
	src domain.Coordinates,
	dst domain.Coordinates,
) (_ domain.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "ors.Route."+profile)(&err)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	payload, err := json.Marshal(orsDirectionsRequest{
		Coordinates: [][]float64{src.CoordsToList(), dst.CoordsToList()},
	})
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("create directions request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr orsDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return domain.RouteResult{}, false, nil
	}

	f := dr.Features[0]
	geometry, err := lineString(f.Geometry.Coordinates)
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("directions geometry: %w", err)
	}

	return domain.RouteResult{
		DistanceMeters:  f.Properties.Summary.Distance,
		DurationSeconds: f.Properties.Summary.Duration,
		Geometry:        geometry,
		Provider:        o.Name(),
		Profile:         profile,
	}, true, nil
}
