package handlers

import (
	"log"
	"net/http"
	"place-picker-service/internal/api/dto"
	"place-picker-service/internal/services"
	"strings"
)

// RemovalHandler drives the delete-confirmation flow for picked places.
type RemovalHandler struct {
	Coordinator *services.RemovalCoordinator
}

// State serves GET (current dialog state) and POST (request a removal).
func (h *RemovalHandler) State(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeState(w, r)
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req dto.RemovalRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		id := strings.TrimSpace(req.ID)
		if id == "" {
			writeError(w, r, http.StatusBadRequest, "id is required")
			return
		}

		h.Coordinator.RequestRemoval(id)
		h.writeState(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Confirm removes the pending place and closes the dialog.
func (h *RemovalHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	picked, err := h.Coordinator.ConfirmRemoval(r.Context())
	if err != nil {
		log.Printf("confirm removal failed: err=%v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PlaceListResponse{
		Title:        pickedTitle,
		FallbackText: pickedFallback,
		Places:       toPlaceResponses(picked),
	})
}

// Cancel closes the dialog without touching the picked list.
func (h *RemovalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	h.Coordinator.CancelRemoval()
	h.writeState(w, r)
}

// writeState reports the dialog from the coordinator so the open flag and the
// pending id come from the same snapshot.
func (h *RemovalHandler) writeState(w http.ResponseWriter, r *http.Request) {
	pending, open := h.Coordinator.Pending()
	writeJSON(w, r, http.StatusOK, dto.RemovalResponse{
		Open:      open,
		PendingID: pending,
	})
}
