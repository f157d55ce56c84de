package handlers

import (
	"net/http"
	"time"
)

const serviceName = "credential-service"

// Health reports liveness. It does not touch the database; a pool that
// cannot connect fails at startup, not here.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}

// Root describes the API surface for anyone poking at the base URL.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"status":  "running",
		"endpoints": map[string]string{
			"register": "POST /auth/register",
			"login":    "POST /auth/login",
			"profile":  "GET /auth/profile",
			"health":   "GET /health",
			"metrics":  "GET /metrics",
		},
	})
}
