package handlers

import (
	"encoding/json"
	"net/http"

	"locator-backend/internal/models"
	"locator-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService     *services.UserService
	locationService *services.LocationService
	notifyService   *services.NotifyService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, locationService *services.LocationService, notifyService *services.NotifyService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		locationService: locationService,
		notifyService:   notifyService,
	}
}

// AddUserRequest represents the request body for registering a user.
// Coordinates and the token are optional; the client sends them on sign-up
// when it already has both.
type AddUserRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	FCMToken string   `json:"fcmToken"`
}

// UpdateLocationRequest represents the request body for a location report
type UpdateLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// UserResponse is the flat user shape the mobile client consumes
type UserResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	FCMToken string   `json:"fcmToken,omitempty"`
}

// LocationResponse is the response body for GetUserLocation
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AddUser handles POST /AddUser
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(ctx, req.ID, req.Name, req.Lat, req.Lon, req.FCMToken)
	if err != nil {
		log.Error().Err(err).Str("user_id", req.ID).Msg("Failed to create user")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("name", user.Name).
		Msg("User created")

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// GetUser handles GET /GetUser/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to get user")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	h.notifyService.RefreshIfStale(user)

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// GetUserLocation handles GET /GetUserLocation/{id}
func (h *UserHandler) GetUserLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to get user location")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	if user.Location == nil {
		respondError(w, "user has no reported location", http.StatusNotFound)
		return
	}

	h.notifyService.RefreshIfStale(user)

	respondJSON(w, http.StatusOK, LocationResponse{
		Lat: user.Location.Lat,
		Lon: user.Location.Lon,
	})
}

// GetLastSeen handles GET /GetLastSeen/{id}
func (h *UserHandler) GetLastSeen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	lastSeen, err := h.userService.GetLastSeen(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to get last seen")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, lastSeen)
}

// UpdateUserLocation handles POST /UpdateUserLocation/{id}
func (h *UserHandler) UpdateUserLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Lat == nil || req.Lon == nil {
		respondError(w, "lat and lon are required", http.StatusBadRequest)
		return
	}

	user, err := h.locationService.Report(ctx, id, *req.Lat, *req.Lon)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", id).
			Float64("lat", *req.Lat).
			Float64("lon", *req.Lon).
			Msg("Failed to apply location report")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().
		Str("user_id", id).
		Float64("lat", user.Location.Lat).
		Float64("lon", user.Location.Lon).
		Msg("Location updated")

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateFirebaseToken handles POST /UpdateFirebaseToken/{id}?firebaseToken=…
// An empty or missing firebaseToken clears the registration.
func (h *UserHandler) UpdateFirebaseToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	token := r.URL.Query().Get("firebaseToken")

	user, err := h.userService.UpdateToken(ctx, id, token)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to update firebase token")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().
		Str("user_id", id).
		Bool("cleared", token == "").
		Msg("Firebase token updated")

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// toUserResponse flattens a user record into the client wire shape
func toUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:   user.ID,
		Name: user.Name,
	}
	if user.Location != nil {
		resp.Lat = &user.Location.Lat
		resp.Lon = &user.Location.Lon
	}
	if user.FCMToken != nil {
		resp.FCMToken = *user.FCMToken
	}
	return resp
}
