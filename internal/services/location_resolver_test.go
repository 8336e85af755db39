package services

import (
	"commute-eta-service/internal/adapters/geocoding"
	"commute-eta-service/internal/domain"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var channi = domain.Coordinates{Lon: 74.8605, Lat: 32.6880}

func TestLocationResolverPrimaryWins(t *testing.T) {
	primary := geocoding.NewMockGeocoder("primary", map[string]geocoding.MockResult{
		"Channi": {Coords: channi, Found: true},
	})
	secondary := geocoding.NewMockGeocoder("secondary", nil)

	r, err := NewLocationResolver(primary, secondary)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background(), "Channi")
	require.NoError(t, err)

	assert.Equal(t, channi, got.Coordinates)
	assert.Equal(t, "primary", got.Provider)
	assert.Empty(t, secondary.Calls())
	assert.True(t, got.Coordinates.Valid())
}

func TestLocationResolverFallsBackOnEmptyAndError(t *testing.T) {
	cases := map[string]geocoding.MockResult{
		"empty": {},
		"error": {Err: errors.New("connection refused")},
	}

	for name, primaryResult := range cases {
		t.Run(name, func(t *testing.T) {
			primary := geocoding.NewMockGeocoder("primary", map[string]geocoding.MockResult{"Channi": primaryResult})
			secondary := geocoding.NewMockGeocoder("secondary", map[string]geocoding.MockResult{
				"Channi": {Coords: channi, Found: true},
			})

			r, err := NewLocationResolver(primary, secondary)
			require.NoError(t, err)

			got, err := r.Resolve(context.Background(), "Channi")
			require.NoError(t, err)

			assert.Equal(t, []string{"Channi"}, primary.Calls())
			assert.Equal(t, []string{"Channi"}, secondary.Calls())
			assert.Equal(t, "secondary", got.Provider)
			require.Len(t, got.Attempts, 2)
			assert.Equal(t, domain.OutcomeFound, got.Attempts[1].Outcome)
		})
	}
}

func TestLocationResolverExhausted(t *testing.T) {
	primary := geocoding.NewMockGeocoder("primary", nil)
	secondary := geocoding.NewMockGeocoder("secondary", map[string]geocoding.MockResult{
		"Atlantis": {Err: errors.New("timeout")},
	})

	r, err := NewLocationResolver(primary, secondary)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "Atlantis")
	require.ErrorIs(t, err, ErrLocationNotFound)

	var nf *LocationNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Atlantis", nf.Query)
	assert.Contains(t, nf.Error(), "Atlantis")
	assert.NotContains(t, nf.Error(), "timeout")
	require.Len(t, nf.Attempts, 2)
	assert.Equal(t, domain.OutcomeEmpty, nf.Attempts[0].Outcome)
	assert.Equal(t, domain.OutcomeError, nf.Attempts[1].Outcome)
}

func TestLocationResolverStopsOnCancelledContext(t *testing.T) {
	primary := geocoding.NewMockGeocoder("primary", nil)
	r, err := NewLocationResolver(primary)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Resolve(ctx, "Channi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, primary.Calls())
}

func TestNewLocationResolverRequiresGeocoders(t *testing.T) {
	_, err := NewLocationResolver()
	assert.Error(t, err)
}
