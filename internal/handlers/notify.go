package handlers

import (
	"net/http"

	"locator-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// NotifyHandler handles location-refresh dispatch HTTP requests
type NotifyHandler struct {
	notifyService *services.NotifyService
}

// NewNotifyHandler creates a new notify handler
func NewNotifyHandler(notifyService *services.NotifyService) *NotifyHandler {
	return &NotifyHandler{
		notifyService: notifyService,
	}
}

// RequestUserLocation handles POST /RequestUserLocation/{id}. The dispatch
// is accepted, not confirmed: the device reports back asynchronously, if
// ever, through UpdateUserLocation.
func (h *NotifyHandler) RequestUserLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.notifyService.RequestLocationRefresh(ctx, id); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to request location refresh")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
