package services

import (
	"commute-eta-service/internal/adapters/geocoding"
	"commute-eta-service/internal/adapters/routing"
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/httpx"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jammuWhitelist(t *testing.T) domain.Whitelist {
	t.Helper()

	w, err := domain.NewWhitelist([]domain.Place{
		{Name: "Bahu Plaza", Coordinates: bahuPlaza},
		{Name: "Gandhi Nagar", Coordinates: gandhiNagar},
		{Name: "Channi", Coordinates: channi},
	})
	require.NoError(t, err)
	return w
}

type fixture struct {
	geocoder *geocoding.MockGeocoder
	router   *routing.MockRouteProvider
	svc      *CommuteService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	g := geocoding.NewMockGeocoder("ors", map[string]geocoding.MockResult{
		"Bahu Plaza, Jammu":   {Coords: bahuPlaza, Found: true},
		"Gandhi Nagar, Jammu": {Coords: gandhiNagar, Found: true},
	})
	rp := routing.NewMockRouteProvider("osrm", []string{"driving"}, map[string]routing.MockRoute{
		"driving": {Route: sampleRoute(2450.3, 312.6), Found: true},
	})

	locations, err := NewLocationResolver(g)
	require.NoError(t, err)
	routes, err := NewRouteResolver(rp)
	require.NoError(t, err)

	svc, err := NewCommuteService(locations, routes, jammuWhitelist(t))
	require.NoError(t, err)

	return fixture{geocoder: g, router: rp, svc: svc}
}

func TestEstimateGeocodesThenRoutes(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.Estimate(context.Background(), " Bahu Plaza, Jammu ", "Gandhi Nagar, Jammu")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bahu Plaza, Jammu", "Gandhi Nagar, Jammu"}, f.geocoder.Calls())
	assert.Equal(t, []string{"driving"}, f.router.Calls())
	assert.Equal(t, "2.45 km", got.Distance)
	assert.Equal(t, "5.21 mins", got.DurationNormal)
	assert.Equal(t, "5.21 mins", got.DurationInTraffic)
	assert.Equal(t, [][2]float64{{32.7085, 74.8570}, {32.7064, 74.8741}}, got.Geometry)
}

func TestEstimateUnknownPlace(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Estimate(context.Background(), "Bahu Plaza, Jammu", "Atlantis")
	require.ErrorIs(t, err, ErrLocationNotFound)

	var nf *LocationNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Atlantis", nf.Query)
	assert.Empty(t, f.router.Calls())
}

func TestEstimateBlankInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Estimate(context.Background(), "  ", "Channi")
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, f.geocoder.Calls())
}

func TestEstimateKnownUsesTrustedCoordinates(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.EstimateKnown(context.Background(), "Bahu Plaza", "Gandhi Nagar")
	require.NoError(t, err)

	assert.Empty(t, f.geocoder.Calls())
	assert.Equal(t, "2.45 km", got.Distance)
}

func TestEstimateKnownRejectsBeforeAnyNetworkCall(t *testing.T) {
	cases := []struct {
		name        string
		source      string
		destination string
		reason      string
	}{
		{name: "identical", source: "Channi", destination: "Channi", reason: "Source and destination cannot be same"},
		{name: "unknown source", source: "Atlantis", destination: "Channi", reason: "Invalid source location"},
		{name: "unknown destination", source: "Channi", destination: "Atlantis", reason: "Invalid destination location"},
		{name: "case sensitive", source: "channi", destination: "Bahu Plaza", reason: "Invalid source location"},
		{name: "not trimmed", source: "Channi", destination: " Bahu Plaza", reason: "Invalid destination location"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.EstimateKnown(context.Background(), tc.source, tc.destination)
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.EqualError(t, err, tc.reason)
			assert.Empty(t, f.geocoder.Calls())
			assert.Empty(t, f.router.Calls())
		})
	}
}

func TestEstimateKnownNoRoute(t *testing.T) {
	rp := routing.NewMockRouteProvider("osrm", []string{"driving"}, nil)
	routes, err := NewRouteResolver(rp)
	require.NoError(t, err)

	svc, err := NewCommuteService(nil, routes, jammuWhitelist(t))
	require.NoError(t, err)

	got, err := svc.EstimateKnown(context.Background(), "Bahu Plaza", "Channi")
	require.ErrorIs(t, err, ErrNoRouteFound)
	assert.Equal(t, domain.CommuteEstimate{}, got)
}

func TestPlacesSorted(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"Bahu Plaza", "Channi", "Gandhi Nagar"}, f.svc.Places())
}

const osrmBody = `{"code":"Ok","routes":[{"distance":2450.3,"duration":312.6,
	"geometry":{"coordinates":[[74.857,32.7085],[74.8741,32.7064]]}}]}`

// osrmServer fails with the given statuses first, then serves osrmBody.
func osrmServer(t *testing.T, failures ...int) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		if n <= len(failures) {
			w.WriteHeader(failures[n-1])
			return
		}
		_, _ = io.WriteString(w, osrmBody)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func estimateVia(t *testing.T, baseURL string) domain.CommuteEstimate {
	t.Helper()

	client := httpx.NewClient(nil, httpx.Policy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})
	osrm, err := routing.NewOSRM(client, baseURL)
	require.NoError(t, err)
	routes, err := NewRouteResolver(osrm)
	require.NoError(t, err)
	svc, err := NewCommuteService(nil, routes, jammuWhitelist(t))
	require.NoError(t, err)

	got, err := svc.EstimateKnown(context.Background(), "Bahu Plaza", "Gandhi Nagar")
	require.NoError(t, err)
	return got
}

func TestRetryIsTransparentToCallers(t *testing.T) {
	immediate, _ := osrmServer(t)
	flaky, calls := osrmServer(t, http.StatusServiceUnavailable)

	want := estimateVia(t, immediate.URL)
	got := estimateVia(t, flaky.URL)

	assert.Equal(t, want, got)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}
