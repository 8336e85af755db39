package geocoding

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
	defaultORSBaseURL = "https://api.openrouteservice.org"
	orsGeocodeTimeout = 20 * time.Second
)

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves free text through OpenRouteService /geocode/search.
// The API key travels in the Authorization header.
type ORSGeocoder struct {
	client  *httpx.Client
	apiKey  string
	baseURL string
	country string
	timeout time.Duration
}

type ORSGeocoderOption func(*ORSGeocoder)

func WithORSBaseURL(u string) ORSGeocoderOption {
	return func(g *ORSGeocoder) {
		if u != "" {
			g.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithORSCountry restricts candidates to an ISO country code (boundary.country).
func WithORSCountry(code string) ORSGeocoderOption {
	return func(g *ORSGeocoder) { g.country = strings.TrimSpace(code) }
}

func WithORSTimeout(d time.Duration) ORSGeocoderOption {
	return func(g *ORSGeocoder) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func NewORSGeocoder(client *httpx.Client, apiKey string, opts ...ORSGeocoderOption) (*ORSGeocoder, error) {
	if client == nil {
		return nil, errors.New("ORS geocoder: http client is nil")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS geocoder: api key is empty")
	}

	g := &ORSGeocoder{
		client:  client,
		apiKey:  apiKey,
		baseURL: defaultORSBaseURL,
		timeout: orsGeocodeTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *ORSGeocoder) Name() string { return "openrouteservice" }

func (g *ORSGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/geocode/search", nil)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("create geocode request: %w", err)
	}
	req.Header.Set("Authorization", g.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("text", normalize(query))
	q.Set("size", "1")
	if g.country != "" {
		q.Set("boundary.country", g.country)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded orsGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, false, nil
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return domain.Coordinates{}, false, fmt.Errorf("invalid coordinate format for %q", query)
	}

	c := domain.Coordinates{Lon: coords[0], Lat: coords[1]}
	if !c.Valid() {
		return domain.Coordinates{}, false, fmt.Errorf("out of range coordinate for %q: %v", query, coords)
	}

	return c, true, nil
}

// normalize collapses whitespace so equivalent queries look the same upstream.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
