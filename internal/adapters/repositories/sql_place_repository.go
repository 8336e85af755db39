package repositories

import (
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the PlaceRepository port.
type SQLPlaceRepository struct{ DB *sql.DB }

func NewSQLPlaceRepository(db *sql.DB) *SQLPlaceRepository {
	return &SQLPlaceRepository{DB: db}
}

// Return every known place, ordered by name.
func (s *SQLPlaceRepository) ListPlaces(ctx context.Context) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "places.sql.ListPlaces")(&err)

	if s.DB == nil {
		return nil, errors.New("sql place repository: DB is nil")
	}

	query := `
	SELECT
		name,
		lon,
		lat
	FROM known_places
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list places: query known_places table: %w", err)
	}
	defer rows.Close()

	places := make([]domain.Place, 0, 16)
	for rows.Next() {
		var name string
		var lon, lat float64
		if err := rows.Scan(&name, &lon, &lat); err != nil {
			return nil, fmt.Errorf("list places: scan row: %w", err)
		}
		places = append(places, domain.Place{
			Name:        name,
			Coordinates: domain.Coordinates{Lon: lon, Lat: lat},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return places, nil
}
