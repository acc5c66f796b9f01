package handlers

import (
	"errors"
	"log"
	"net/http"
	"place-picker-service/internal/api/dto"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/services"
	"strconv"
	"strings"
)

const (
	pickedTitle        = "I'd like to visit ..."
	pickedFallback     = "Select the places you would like to visit below."
	availableTitle     = "Available Places"
	availableFallback  = "Sorting places by distance..."
	catalogTitle       = "All Places"
	catalogFallback    = "No places available."
	maxRequestBodySize = 1 << 16
)

// PlaceHandler serves the catalog, the distance-sorted availability list and
// the picked list.
type PlaceHandler struct {
	Catalog      *domain.Catalog
	Selection    *services.SelectionStore
	Availability *services.Availability
}

// List returns every place in catalog order.
func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PlaceListResponse{
		Title:        catalogTitle,
		FallbackText: catalogFallback,
		Places:       toPlaceResponses(h.Catalog.Places()),
	})
}

// Available returns the catalog sorted by distance from the user.
// Without query parameters it reports the startup ranking, which stays empty
// until a position fix arrives. With lat and lon it ranks against that point.
func (h *PlaceHandler) Available(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	res := dto.AvailablePlacesResponse{
		PlaceListResponse: dto.PlaceListResponse{
			Title:        availableTitle,
			FallbackText: availableFallback,
		},
	}

	q := r.URL.Query()
	if q.Has("lat") || q.Has("lon") {
		ref, err := parseReference(q.Get("lat"), q.Get("lon"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		res.Ready = true
		res.Places = toRankedResponses(services.RankWithDistance(h.Catalog.Places(), ref.Lat, ref.Lon))
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	ranked, ready := h.Availability.Ranked()
	res.Ready = ready
	res.Places = toRankedResponses(ranked)
	writeJSON(w, r, http.StatusOK, res)
}

// Picked serves GET (current list) and POST (select a place).
func (h *PlaceHandler) Picked(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writePicked(w, r, h.Selection.Picked())
	case http.MethodPost:
		h.selectPlace(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PlaceHandler) selectPlace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req dto.SelectPlaceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	picked, err := h.Selection.Select(r.Context(), id)
	if errors.Is(err, services.ErrPlaceNotFound) {
		writeError(w, r, http.StatusNotFound, "place not found")
		return
	}
	if err != nil {
		log.Printf("select place failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writePicked(w, r, picked)
}

func (h *PlaceHandler) writePicked(w http.ResponseWriter, r *http.Request, picked []domain.Place) {
	writeJSON(w, r, http.StatusOK, dto.PlaceListResponse{
		Title:        pickedTitle,
		FallbackText: pickedFallback,
		Places:       toPlaceResponses(picked),
	})
}

func parseReference(rawLat, rawLon string) (domain.Coordinates, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil {
		return domain.Coordinates{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	if err != nil {
		return domain.Coordinates{}, errors.New("lon must be a number")
	}

	ref := domain.Coordinates{Lat: lat, Lon: lon}
	if !ref.Valid() {
		return domain.Coordinates{}, errors.New("lat must be within [-90, 90] and lon within [-180, 180]")
	}
	return ref, nil
}
