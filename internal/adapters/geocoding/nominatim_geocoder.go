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
	"strconv"
	"strings"
	"time"
)

const (
	defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"
	nominatimTimeout        = 10 * time.Second
)

// Nominatim returns coordinates as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder queries an OpenStreetMap Nominatim instance. It needs no
// key, but the usage policy requires an identifying User-Agent.
type NominatimGeocoder struct {
	client    *httpx.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

func NewNominatimGeocoder(client *httpx.Client, baseURL, userAgent string) (*NominatimGeocoder, error) {
	if client == nil {
		return nil, errors.New("nominatim geocoder: http client is nil")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim geocoder: user agent is required")
	}
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}

	return &NominatimGeocoder{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   nominatimTimeout,
	}, nil
}

func (g *NominatimGeocoder) Name() string { return "nominatim" }

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search", nil)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("q", normalize(query))
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("execute search request: %w", err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("decode search response: %w", err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("parse latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("parse longitude %q: %w", places[0].Lon, err)
	}

	c := domain.Coordinates{Lon: lon, Lat: lat}
	if !c.Valid() {
		return domain.Coordinates{}, false, fmt.Errorf("out of range coordinate for %q", query)
	}

	return c, true, nil
}
