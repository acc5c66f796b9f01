package services

import (
	"cmp"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/metrics"
	"slices"
)

// A place paired with its distance from the reference point.
type RankedPlace struct {
	Place      domain.Place
	DistanceKm float64
}

// RankWithDistance orders places by ascending great-circle distance from (lat, lon).
//
// The sort is stable: places at equal distance keep their catalog order, which
// is the only tie-breaker. The input slice is never modified.
func RankWithDistance(places []domain.Place, lat, lon float64) []RankedPlace {
	ref := domain.Coordinates{Lat: lat, Lon: lon}

	ranked := make([]RankedPlace, 0, len(places))
	for _, p := range places {
		ranked = append(ranked, RankedPlace{Place: p, DistanceKm: HaversineKm(ref, p.Location)})
	}

	slices.SortStableFunc(ranked, func(a, b RankedPlace) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	metrics.RankingsTotal.Inc()
	return ranked
}

// RankByDistance is RankWithDistance without the distances.
func RankByDistance(places []domain.Place, lat, lon float64) []domain.Place {
	ranked := RankWithDistance(places, lat, lon)

	out := make([]domain.Place, len(ranked))
	for i, r := range ranked {
		out[i] = r.Place
	}
	return out
}
