package handlers

import (
	"net/http"
	"strconv"

	"locator-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// SearchHandler handles directory search HTTP requests
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// SearchUsers handles GET /SearchUsers?prefix=&limit=
func (h *SearchHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prefix := r.URL.Query().Get("prefix")

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}

	results, err := h.searchService.FindByPrefix(ctx, prefix, limit)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("Failed to search users")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, results)
}
