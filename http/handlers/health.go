package handlers

import (
	"net/http"

	resp "lead-relay/http/response"
)

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	resp.SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
