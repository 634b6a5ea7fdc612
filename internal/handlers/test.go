package handlers

import "net/http"

// TestEcho handles GET /Test, the connectivity probe the mobile client
// calls on startup. The canned body mirrors the user wire shape.
func TestEcho(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":   "test",
		"name": "locator",
		"lat":  0.0,
		"lon":  0.0,
	})
}
