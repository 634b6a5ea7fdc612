package handlers

import (
	"net/http"

	"locator-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every endpoint of the directory service. Paths match
// what the mobile client calls; there is no version prefix.
func NewRouter(user *UserHandler, search *SearchHandler, notify *NotifyHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)

	r.Post("/AddUser", user.AddUser)
	r.Get("/GetUser/{id}", user.GetUser)
	r.Get("/GetUserLocation/{id}", user.GetUserLocation)
	r.Get("/GetLastSeen/{id}", user.GetLastSeen)
	r.Post("/UpdateUserLocation/{id}", user.UpdateUserLocation)
	r.Post("/UpdateFirebaseToken/{id}", user.UpdateFirebaseToken)
	r.Get("/SearchUsers", search.SearchUsers)
	r.Post("/RequestUserLocation/{id}", notify.RequestUserLocation)
	r.Get("/Test", TestEcho)

	return r
}
