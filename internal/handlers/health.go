package handlers

import (
	"net/http"

	"github.com/mohesu/jasmin-api/internal/database"
	"github.com/mohesu/jasmin-api/internal/orchestrator"
)

// HealthCheck reports local liveness and the last probe of the consoles.
// It never dials a console itself.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if database.DB != nil {
		sqlDB, err := database.DB.DB()
		if err == nil {
			if err := sqlDB.Ping(); err == nil {
				dbStatus = "connected"
			}
		}
	}

	resolverBackend := "none"
	if res := orchestrator.Get(); res != nil {
		resolverBackend = res.BackendName()
	}

	status := "healthy"
	if dbStatus != "connected" {
		status = "unhealthy"
	}

	body := map[string]interface{}{
		"status":   status,
		"database": dbStatus,
		"backend":  resolverBackend,
	}
	if dbStatus == "connected" {
		if p, err := database.LatestProbeResult(); err == nil {
			body["probe"] = p
		}
	}
	writeJSON(w, http.StatusOK, body)
}
