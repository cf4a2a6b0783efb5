// Package data holds the published graph. The graph is swapped in
// atomically once its build succeeded and is read without locks afterwards.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/interfaces"
	"github.com/giygas/medicaments-graph/logging"
	"github.com/giygas/medicaments-graph/metrics"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the published graph and its quality report
type DataContainer struct {
	graph           atomic.Pointer[graph.Graph]
	report          atomic.Pointer[interfaces.DataQualityReport]
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container without graph
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.report.Store(&interfaces.DataQualityReport{})
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetGraph returns the published graph, false until the first build succeeded
func (dc *DataContainer) GetGraph() (*graph.Graph, bool) {
	g := dc.graph.Load()
	return g, g != nil
}

// GetQualityReport returns the report of the published graph
func (dc *DataContainer) GetQualityReport() *interfaces.DataQualityReport {
	if r := dc.report.Load(); r != nil {
		return r
	}
	return &interfaces.DataQualityReport{}
}

// GetLastUpdated returns the time the published graph was built
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true while a build is in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData publishes a graph and refreshes the entity gauges
func (dc *DataContainer) UpdateData(g *graph.Graph, report *interfaces.DataQualityReport) {
	if g == nil {
		logging.Error("Refusing to publish a nil graph")
		return
	}
	if report == nil {
		report = &interfaces.DataQualityReport{}
	}

	dc.report.Store(report)
	dc.graph.Store(g)
	dc.lastUpdated.Store(g.BuiltAt())

	stats := g.Stats()
	metrics.GraphEntities.WithLabelValues("medicaments").Set(float64(stats.Medicaments))
	metrics.GraphEntities.WithLabelValues("presentations").Set(float64(stats.Presentations))
	metrics.GraphEntities.WithLabelValues("substances").Set(float64(stats.Substances))
	metrics.GraphEntities.WithLabelValues("codes_substance").Set(float64(stats.CodesSubstance))
	metrics.GraphEntities.WithLabelValues("groupes_generiques").Set(float64(stats.GroupesGeneriques))
	metrics.GraphEntities.WithLabelValues("conditions").Set(float64(stats.Conditions))

	logging.Info("Graph published",
		"medicaments", stats.Medicaments,
		"presentations", stats.Presentations,
		"groupes_generiques", stats.GroupesGeneriques)
}

// BeginUpdate marks the start of a build.
// Returns true if the build can proceed, false if another one is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a build
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
