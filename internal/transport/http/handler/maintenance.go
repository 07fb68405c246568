package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-commerce-api/internal/application/maintenance"
)

// MaintenanceHandler exposes the purge sweep to an external scheduler. The
// in-process hourly ticker covers normal operation; this endpoint lets a cron
// job or an operator force a run.
type MaintenanceHandler struct {
	svc        maintenance.Service
	cronSecret string
}

func NewMaintenanceHandler(svc maintenance.Service, cronSecret string) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, cronSecret: cronSecret}
}

func (h *MaintenanceHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	purged, err := h.svc.PurgeExpired(r.Context(), time.Now().UTC())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: map[string]int{"purged": purged}, Message: "purge complete"})
}

func (h *MaintenanceHandler) authorized(r *http.Request) bool {
	if h.cronSecret == "" {
		return false
	}
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	got := strings.TrimPrefix(authHeader, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.cronSecret)) == 1
}
