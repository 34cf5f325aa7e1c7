package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mohesu/jasmin-api/internal/database"
	"github.com/mohesu/jasmin-api/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	prev, err := database.InitForTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.DB = prev })
}

func getJSON(t *testing.T, h http.HandlerFunc, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h(w, req)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return w.Code, result
}

func TestHealthCheck(t *testing.T) {
	setupTestDB(t)
	orchestrator.SetForTest(&orchestrator.StaticResolver{Name: "static"})
	t.Cleanup(orchestrator.ResetForTest)

	code, body := getJSON(t, HealthCheck, "/health")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "static", body["backend"])
	assert.NotContains(t, body, "probe")

	require.NoError(t, database.SaveProbeResult(&database.ProbeResult{Total: 2, Reachable: 1, Duration: "Less than a second"}))
	_, body = getJSON(t, HealthCheck, "/health")
	probe := body["probe"].(map[string]interface{})
	assert.Equal(t, float64(2), probe["total"])
	assert.Equal(t, float64(1), probe["reachable"])
}

func TestHealthCheck_NoDatabase(t *testing.T) {
	prev := database.DB
	database.DB = nil
	t.Cleanup(func() { database.DB = prev })

	_, body := getJSON(t, HealthCheck, "/health")
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "none", body["backend"])
}

func TestGetAuditLogs(t *testing.T) {
	setupTestDB(t)
	for _, target := range []string{"g1", "g2", "g3"} {
		require.NoError(t, database.RecordAudit(&database.AuditRecord{
			Username: "admin", Resource: "groups", Action: "create", Target: target, Outcome: "ok",
		}))
	}

	code, body := getJSON(t, GetAuditLogs, "/api/v1/audit-logs?limit=2")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["entries"], 2)

	code, _ = getJSON(t, GetAuditLogs, "/api/v1/audit-logs?limit=zero")
	assert.Equal(t, http.StatusBadRequest, code)
}
