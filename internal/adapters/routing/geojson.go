package routing

import (
	"commute-eta-service/internal/domain"
	"fmt"
)

// lineString converts GeoJSON [lon, lat(, ele)] positions into coordinates.
func lineString(positions [][]float64) ([]domain.Coordinates, error) {
	out := make([]domain.Coordinates, 0, len(positions))
	for i, p := range positions {
		if len(p) < 2 {
			return nil, fmt.Errorf("geometry position %d has %d values", i, len(p))
		}
		out = append(out, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}
	return out, nil
}
