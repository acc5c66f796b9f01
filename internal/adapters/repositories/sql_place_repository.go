package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"place-picker-service/internal/domain"
)

// SQL-backed implementation of the PlaceRepository port.
// The query is dialect-neutral, so it serves SQLite and Postgres alike.
type SQLPlaceRepository struct{ DB *sql.DB }

func NewSQLPlaceRepository(db *sql.DB) *SQLPlaceRepository {
	return &SQLPlaceRepository{DB: db}
}

// Return all places stored in the database, in catalog order.
func (s *SQLPlaceRepository) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	if s.DB == nil {
		return nil, errors.New("sql place repository: DB is nil")
	}

	query := `
	SELECT
		place_id,
		title,
		image_src,
		image_alt,
		description,
		lat,
		lon
	FROM places
	ORDER BY sort_order;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list places: query places table: %w", err)
	}
	defer rows.Close()

	places := make([]domain.Place, 0, 32)
	for rows.Next() {
		var p domain.Place
		err := rows.Scan(&p.ID, &p.Title, &p.Image.Src, &p.Image.Alt, &p.Description, &p.Location.Lat, &p.Location.Lon)
		if err != nil {
			return nil, fmt.Errorf("list places: scan row: %w", err)
		}
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return places, nil
}
