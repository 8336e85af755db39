package repositories

import (
	"commute-eta-service/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type PlaceSeed struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

// Reads the whitelist from a JSON array of PlaceSeed objects.
type JSONPlaceRepository struct {
	Path string
}

func NewJSONPlaceRepository(path string) *JSONPlaceRepository {
	return &JSONPlaceRepository{Path: path}
}

func (j *JSONPlaceRepository) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, fmt.Errorf("list places: read %q: %w", j.Path, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("list places: parse json: %w", err)
	}

	places := make([]domain.Place, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("list places: item at index %d: name cannot be empty", i+1)
		}

		c := domain.Coordinates{Lon: item.Lon, Lat: item.Lat}
		if !c.Valid() {
			return nil, fmt.Errorf("list places: item %q: coordinates out of range", name)
		}
		places = append(places, domain.Place{Name: name, Coordinates: c})
	}

	return places, nil
}
