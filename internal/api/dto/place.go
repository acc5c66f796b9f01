package dto

type ImageResponse struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type PlaceResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Image       ImageResponse `json:"image"`
	Description string        `json:"description"`
	Lat         float64       `json:"lat"`
	Lon         float64       `json:"lon"`
	DistanceKm  *float64      `json:"distance_km,omitempty"`
}

// A titled list surface with the text shown while it is empty.
type PlaceListResponse struct {
	Title        string          `json:"title"`
	FallbackText string          `json:"fallback_text"`
	Places       []PlaceResponse `json:"places"`
}

type AvailablePlacesResponse struct {
	PlaceListResponse
	Ready bool `json:"ready"`
}

type SelectPlaceRequest struct {
	ID string `json:"id"`
}
