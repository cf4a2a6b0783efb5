// Package health reports the status of the published graph.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/medicaments-graph/interfaces"
)

// Age thresholds of the published graph
const (
	DegradedAfter  = 24 * time.Hour
	UnhealthyAfter = 48 * time.Hour
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore: dataStore,
	}
}

// HealthCheck returns the status of the published graph, its data fields
// and the HTTP status the /health endpoint answers with.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	g, ok := h.dataStore.GetGraph()
	isUpdating := h.dataStore.IsUpdating()

	data = map[string]any{
		"is_updating": isUpdating,
	}
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = math.Round(time.Since(start).Seconds())
	}

	if !ok {
		if isUpdating {
			return "building", data, http.StatusServiceUnavailable
		}
		return "unhealthy", data, http.StatusServiceUnavailable
	}

	lastUpdate := h.dataStore.GetLastUpdated()
	dataAge := time.Since(lastUpdate)
	stats := g.Stats()

	data["last_update"] = lastUpdate.Format(time.RFC3339)
	data["data_age_hours"] = math.Round(dataAge.Hours()*10) / 10
	data["medicaments"] = stats.Medicaments
	data["presentations"] = stats.Presentations
	data["groupes_generiques"] = stats.GroupesGeneriques

	switch {
	case stats.Medicaments == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > UnhealthyAfter:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > DegradedAfter:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return status, data, httpStatus
}
