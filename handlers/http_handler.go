// Package handlers provides the HTTP handlers of the health and diagnostics
// surface: health status, graph statistics and the data quality report.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/interfaces"
	"github.com/giygas/medicaments-graph/logging"
)

// HTTPHandlerImpl serves the diagnostics endpoints with injected dependencies
type HTTPHandlerImpl struct {
	dataStore interfaces.DataStore
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore: dataStore,
		health:    health,
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime,omitempty"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// StatsResponse describes the published graph
type StatsResponse struct {
	BuiltAt string      `json:"built_at"`
	Stats   graph.Stats `json:"stats"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// HealthCheck returns the graph status and process statistics
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.health.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status: status,
		Data:   data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		response.Uptime = formatUptimeHuman(time.Since(start))
	}

	h.RespondWithJSON(w, httpStatus, response)
}

// ServeStats returns the entity counts of the published graph
func (h *HTTPHandlerImpl) ServeStats(w http.ResponseWriter, r *http.Request) {
	g, ok := h.dataStore.GetGraph()
	if !ok {
		h.RespondWithError(w, http.StatusServiceUnavailable, "Graph not built yet")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, StatsResponse{
		BuiltAt: g.BuiltAt().Format(time.RFC3339),
		Stats:   g.Stats(),
	})
}

// ServeQualityReport returns the data quality report of the published graph
func (h *HTTPHandlerImpl) ServeQualityReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.dataStore.GetGraph(); !ok {
		h.RespondWithError(w, http.StatusServiceUnavailable, "Graph not built yet")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, h.dataStore.GetQualityReport())
}
