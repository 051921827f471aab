package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	hostUptime = host.UptimeWithContext
	virtualMem = mem.VirtualMemoryWithContext
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports database reachability and basic host stats.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Ping is a liveness probe.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "API is working!")
}

// Health handles GET /health. It answers 503 when the database is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]interface{}{"status": "ok", "database": "ok"}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: database unreachable")
		body["status"] = "degraded"
		body["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if uptime, err := hostUptime(ctx); err == nil {
		body["uptimeSeconds"] = uptime
	} else {
		log.Debug().Err(err).Msg("Health check: uptime unavailable")
	}
	if vm, err := virtualMem(ctx); err == nil {
		body["memoryUsedPercent"] = vm.UsedPercent
	} else {
		log.Debug().Err(err).Msg("Health check: memory stats unavailable")
	}

	respondJSON(w, status, body)
}
