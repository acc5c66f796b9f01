package ports

import (
	"context"
	"place-picker-service/internal/domain"
)

// Port: a boundary for retrieving the place catalog from a data source.
type PlaceRepository interface {
	// Retrieve all places in catalog order.
	ListPlaces(ctx context.Context) ([]domain.Place, error)
}
