package api

import (
	"net/http"
	"place-picker-service/internal/api/handlers"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/services"
)

// Dependencies wired into the HTTP surface by the composition root.
type Deps struct {
	Catalog      *domain.Catalog
	Selection    *services.SelectionStore
	Availability *services.Availability
	Removal      *services.RemovalCoordinator
	Metrics      http.Handler
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	placeHandler := &handlers.PlaceHandler{
		Catalog:      d.Catalog,
		Selection:    d.Selection,
		Availability: d.Availability,
	}
	removalHandler := &handlers.RemovalHandler{
		Coordinator: d.Removal,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/places", placeHandler.List)
	mux.HandleFunc("/places/available", placeHandler.Available)
	mux.HandleFunc("/places/picked", placeHandler.Picked)
	mux.HandleFunc("/removal", removalHandler.State)
	mux.HandleFunc("/removal/confirm", removalHandler.Confirm)
	mux.HandleFunc("/removal/cancel", removalHandler.Cancel)
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics)
	}

	return loggingMiddleware(mux)
}
