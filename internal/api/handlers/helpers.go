package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"place-picker-service/internal/api/dto"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/platform/obs"
	"place-picker-service/internal/services"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody decodes exactly one JSON object into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func toPlaceResponse(p domain.Place) dto.PlaceResponse {
	return dto.PlaceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Image:       dto.ImageResponse{Src: p.Image.Src, Alt: p.Image.Alt},
		Description: p.Description,
		Lat:         p.Location.Lat,
		Lon:         p.Location.Lon,
	}
}

func toPlaceResponses(places []domain.Place) []dto.PlaceResponse {
	out := make([]dto.PlaceResponse, 0, len(places))
	for _, p := range places {
		out = append(out, toPlaceResponse(p))
	}
	return out
}

func toRankedResponses(ranked []services.RankedPlace) []dto.PlaceResponse {
	out := make([]dto.PlaceResponse, 0, len(ranked))
	for _, r := range ranked {
		res := toPlaceResponse(r.Place)
		d := r.DistanceKm
		res.DistanceKm = &d
		out = append(out, res)
	}
	return out
}
