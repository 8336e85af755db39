package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema holding the known-place whitelist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS known_places (
		name TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL CHECK (lon BETWEEN -180 AND 180),
		lat DOUBLE PRECISION NOT NULL CHECK (lat BETWEEN -90 AND 90)
	);
	`

	statements := []string{
		createPlacesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Upsert places from a JSON seed file into known_places.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	if db == nil {
		return errors.New("seed places: DB is nil")
	}

	places, err := NewJSONPlaceRepository(jsonPath).ListPlaces(ctx)
	if err != nil {
		return fmt.Errorf("seed places: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO known_places (name, lon, lat)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`)
	if err != nil {
		return fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range places {
		if _, err := stmt.ExecContext(ctx, p.Name, p.Coordinates.Lon, p.Coordinates.Lat); err != nil {
			return fmt.Errorf("seed places: insert name=%q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed places: commit tx: %w", err)
	}

	return nil
}
