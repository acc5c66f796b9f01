package geolocation

import (
	"context"
	"place-picker-service/internal/domain"
)

// StaticLocator always reports the same configured position.
type StaticLocator struct {
	Position domain.Coordinates
}

func NewStaticLocator(lat, lon float64) *StaticLocator {
	return &StaticLocator{Position: domain.Coordinates{Lat: lat, Lon: lon}}
}

func (l *StaticLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	return l.Position, nil
}
