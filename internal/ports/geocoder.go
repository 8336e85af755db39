package ports

import (
	"commute-eta-service/internal/domain"
	"context"
)

// Contract for turning a place identifier into coordinates.
type Geocoder interface {
	// Name identifies the provider in logs and attempt records.
	Name() string
	// Geocode returns the first candidate for query. found is false when the
	// provider answered but had no candidate; err reports a failed call.
	Geocode(ctx context.Context, query string) (coords domain.Coordinates, found bool, err error)
}
