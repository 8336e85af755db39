package ports

import (
	"commute-eta-service/internal/domain"
	"context"
)

// Port: a boundary for loading the known-place whitelist at startup.
type PlaceRepository interface {
	ListPlaces(ctx context.Context) ([]domain.Place, error)
}
