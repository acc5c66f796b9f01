package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"place-picker-service/internal/domain"
)

// SQL flavour of the connected database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Initialize the database schema.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	realType := "REAL"
	if dialect == Postgres {
		realType = "DOUBLE PRECISION"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS places (
		sort_order INTEGER NOT NULL,
		place_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		image_src TEXT NOT NULL,
		image_alt TEXT NOT NULL,
		description TEXT NOT NULL,
		lat %[1]s NOT NULL,
		lon %[1]s NOT NULL
	);
	`, realType)

	createKVQuery := `
	CREATE TABLE IF NOT EXISTS kv_store (
        entry_key TEXT PRIMARY KEY,
        entry_value TEXT NOT NULL,
        updated_at TIMESTAMP NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_places_position
    ON places(sort_order);
	`

	statements := []string{
		createPlacesQuery,
		createKVQuery,
		createIndexQuery,
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

// SeedPlaces replaces the stored catalog with places, keeping their order.
func SeedPlaces(ctx context.Context, db *sql.DB, dialect Dialect, places []domain.Place) error {
	if db == nil {
		return errors.New("seed places: DB is nil")
	}

	if _, err := domain.NewCatalog(places); err != nil {
		return fmt.Errorf("seed places: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM places;`); err != nil {
		return fmt.Errorf("seed places: clear places: %w", err)
	}

	query := `
	INSERT INTO places (
		sort_order,
		place_id,
		title,
		image_src,
		image_alt,
		description,
		lat,
		lon
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	if dialect == Postgres {
		query = `
		INSERT INTO places (sort_order, place_id, title, image_src, image_alt, description, lat, lon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range places {
		if _, err := stmt.ExecContext(ctx, i, p.ID, p.Title, p.Image.Src, p.Image.Alt, p.Description, p.Location.Lat, p.Location.Lon); err != nil {
			return fmt.Errorf("seed places: insert place_id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed places: commit tx: %w", err)
	}

	return nil
}
