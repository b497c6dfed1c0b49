package handlers

import (
	"net/http"
	"time"

	"github.com/ren-ben/HelikonProject/pkg/store"
)

// startTime records process start for uptime reporting.
var startTime = time.Now()

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// HealthData carries service identity and uptime information.
type HealthData struct {
	Service   string `json:"service"`
	StartedAt string `json:"started_at"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_sec"`
}

// HealthResponse is the body of health check endpoints.
type HealthResponse struct {
	Status    string     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Data      HealthData `json:"data"`
	Error     string     `json:"error,omitempty"`
}

func healthData() HealthData {
	uptime := time.Since(startTime)
	return HealthData{
		Service:   "helikon",
		StartedAt: startTime.UTC().Format(time.RFC3339),
		Uptime:    uptime.Round(time.Second).String(),
		UptimeSec: int64(uptime.Seconds()),
	}
}

func healthyResponse() HealthResponse {
	return HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Data:      healthData(),
	}
}

func unhealthyResponse(errMsg string) HealthResponse {
	return HealthResponse{
		Status:    "unhealthy",
		Timestamp: time.Now().UTC(),
		Data:      healthData(),
		Error:     errMsg,
	}
}

// Liveness handles GET /health.
// Always returns healthy while the process can serve requests.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, healthyResponse())
}

// Readiness handles GET /health/ready.
// Verifies the database connection is alive.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Healthcheck(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, unhealthyResponse(err.Error()))
		return
	}
	WriteJSONOK(w, healthyResponse())
}
