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

	"github.com/twpayne/go-polyline"
)

const (
	defaultGoogleBaseURL = "https://maps.googleapis.com/maps/api"
	googleTimeout        = 20 * time.Second
)

type googleValue struct {
	Value float64 `json:"value"`
}

type googleDirectionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance          googleValue  `json:"distance"`
			Duration          googleValue  `json:"duration"`
			DurationInTraffic *googleValue `json:"duration_in_traffic"`
		} `json:"legs"`
	} `json:"routes"`
}

// GoogleDirections routes through the Google Directions API. Unlike the other
// providers it reports a traffic-aware duration when departure_time is set.
type GoogleDirections struct {
	client  *httpx.Client
	apiKey  string
	baseURL string
	timeout time.Duration
}

func NewGoogleDirections(client *httpx.Client, apiKey, baseURL string) (*GoogleDirections, error) {
	if client == nil {
		return nil, errors.New("google directions: http client is nil")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google directions: api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}

	return &GoogleDirections{
		client:  client,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: googleTimeout,
	}, nil
}

func (g *GoogleDirections) Name() string { return "google" }

func (g *GoogleDirections) Profiles() []string { return []string{"driving"} }

func (g *GoogleDirections) Route(
	ctx context.Context,
	profile string,
	src domain.Coordinates,
	dst domain.Coordinates,
) (_ domain.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "google.Route")(&err)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/directions/json", nil)
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("create directions request: %w", err)
	}

	// Google expects lat,lng.
	q := req.URL.Query()
	q.Set("origin", fmt.Sprintf("%f,%f", src.Lat, src.Lon))
	q.Set("destination", fmt.Sprintf("%f,%f", dst.Lat, dst.Lon))
	q.Set("mode", profile)
	q.Set("departure_time", "now")
	q.Set("units", "metric")
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var gr googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("decode directions response: %w", err)
	}

	switch gr.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return domain.RouteResult{}, false, nil
	default:
		return domain.RouteResult{}, false, fmt.Errorf("google directions status %s: %s", gr.Status, gr.ErrorMessage)
	}

	if len(gr.Routes) == 0 {
		return domain.RouteResult{}, false, nil
	}

	r := gr.Routes[0]
	out := domain.RouteResult{Provider: g.Name(), Profile: profile}

	var traffic float64
	hasTraffic := false
	for _, leg := range r.Legs {
		out.DistanceMeters += leg.Distance.Value
		out.DurationSeconds += leg.Duration.Value
		if leg.DurationInTraffic != nil {
			traffic += leg.DurationInTraffic.Value
			hasTraffic = true
		} else {
			traffic += leg.Duration.Value
		}
	}
	if hasTraffic {
		out.TrafficDurationSeconds = &traffic
	}

	latLngs, _, err := polyline.DecodeCoords([]byte(r.OverviewPolyline.Points))
	if err != nil {
		return domain.RouteResult{}, false, fmt.Errorf("decode overview polyline: %w", err)
	}

	out.Geometry = make([]domain.Coordinates, 0, len(latLngs))
	for _, ll := range latLngs {
		out.Geometry = append(out.Geometry, domain.Coordinates{Lon: ll[1], Lat: ll[0]})
	}

	return out, true, nil
}
