package repositories

import (
	"context"
	"place-picker-service/internal/domain"
	"slices"
)

// In-memory implementation of the PlaceRepository port, used with the
// memory and redis storage backends where no SQL database is available.
type StaticPlaceRepository struct {
	places []domain.Place
}

func NewStaticPlaceRepository(places []domain.Place) *StaticPlaceRepository {
	return &StaticPlaceRepository{places: slices.Clone(places)}
}

func (s *StaticPlaceRepository) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.places), nil
}
