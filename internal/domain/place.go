package domain

// Image reference shown alongside a place.
type Image struct {
	Src string
	Alt string
}

// Represents a single selectable entry of the catalog.
// Places are defined once at startup and never mutated.
type Place struct {
	ID          string
	Title       string
	Image       Image
	Description string
	Location    Coordinates
}
