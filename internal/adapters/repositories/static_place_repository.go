package repositories

import (
	"commute-eta-service/internal/domain"
	"context"
)

// Built-in Jammu locations used when no other whitelist source is configured.
var DefaultPlaces = []domain.Place{
	{Name: "Bahu Plaza", Coordinates: domain.Coordinates{Lon: 74.8570, Lat: 32.7085}},
	{Name: "Gandhi Nagar", Coordinates: domain.Coordinates{Lon: 74.8741, Lat: 32.7064}},
	{Name: "Channi", Coordinates: domain.Coordinates{Lon: 74.8605, Lat: 32.6880}},
	{Name: "Bathindi", Coordinates: domain.Coordinates{Lon: 74.8297, Lat: 32.6826}},
}

// In-memory implementation of the PlaceRepository port.
type StaticPlaceRepository struct {
	places []domain.Place
}

// NewStaticPlaceRepository serves places, or DefaultPlaces when empty.
func NewStaticPlaceRepository(places []domain.Place) *StaticPlaceRepository {
	if len(places) == 0 {
		places = DefaultPlaces
	}

	cp := make([]domain.Place, len(places))
	copy(cp, places)
	return &StaticPlaceRepository{places: cp}
}

func (s *StaticPlaceRepository) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Place, len(s.places))
	copy(out, s.places)
	return out, nil
}
