package handlers

import (
	"net/http"
	"strconv"

	"github.com/mohesu/jasmin-api/internal/database"
)

// GetAuditLogs handles GET /api/v1/audit-logs.
// Query parameters:
//   - limit (optional): number of entries (default 100, at most 1000)
func GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		if n > 1000 {
			n = 1000
		}
		limit = n
	}

	entries, err := database.ListAudit(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query audit logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
