package repositories

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"place-picker-service/internal/domain"
	"strings"
)

//go:embed seeds/places.json
var defaultPlaces []byte

type ImageSeed struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type PlaceSeed struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Image       ImageSeed `json:"image"`
	Description string    `json:"description"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
}

// DefaultPlaces returns the compiled-in catalog.
func DefaultPlaces() ([]domain.Place, error) {
	places, err := parsePlaces(defaultPlaces)
	if err != nil {
		return nil, fmt.Errorf("default places: %w", err)
	}
	return places, nil
}

// LoadPlaces reads a catalog from a JSON file, or the compiled-in catalog
// when jsonPath is empty.
func LoadPlaces(jsonPath string) ([]domain.Place, error) {
	if jsonPath == "" {
		return DefaultPlaces()
	}

	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load places: read %q: %w", jsonPath, err)
	}

	places, err := parsePlaces(bytes)
	if err != nil {
		return nil, fmt.Errorf("load places %q: %w", jsonPath, err)
	}
	return places, nil
}

func parsePlaces(bytes []byte) ([]domain.Place, error) {
	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	places := make([]domain.Place, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("item at index %d: id cannot be empty", i+1)
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, fmt.Errorf("item %q at index %d: title cannot be empty", id, i+1)
		}

		places = append(places, domain.Place{
			ID:          id,
			Title:       title,
			Image:       domain.Image{Src: item.Image.Src, Alt: item.Image.Alt},
			Description: item.Description,
			Location:    domain.Coordinates{Lat: item.Lat, Lon: item.Lon},
		})
	}

	return places, nil
}
