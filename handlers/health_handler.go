package handlers

import "net/http"

// HealthHandler handles GET /healthz, the keep-alive probe.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil)
}
