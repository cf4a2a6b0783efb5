// Package interfaces defines the contracts between the graph build, the
// published-graph store, the scheduler and the health surface.
package interfaces

import (
	"context"
	"time"

	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/medicamentsparser"
)

// LineSource supplies the decoded lines of one dataset.
type LineSource = medicamentsparser.LineSource

// Sources maps every dataset to its line source.
type Sources = map[medicamentsparser.Dataset]LineSource

// DataQualityReport summarizes the referential issues of a built graph
type DataQualityReport struct {
	MedicamentsWithoutPresentations int `json:"medicamentsWithoutPresentations"`
	MedicamentsWithoutSubstances    int `json:"medicamentsWithoutSubstances"`
	MedicamentsWithoutConditions    int `json:"medicamentsWithoutConditions"`
	MedicamentsWithoutGeneriques    int `json:"medicamentsWithoutGeneriques"`

	// CIS values referenced by a dataset without a matching medicament
	OrphanPresentationCIS []string `json:"orphanPresentationCIS"`
	OrphanSubstanceCIS    []string `json:"orphanSubstanceCIS"`
	OrphanConditionCIS    []string `json:"orphanConditionCIS"`
	GeneriqueOnlyCIS      []string `json:"generiqueOnlyCIS"`

	GroupesWithoutPrinceps []string `json:"groupesWithoutPrinceps"`
}

// GraphBuilder builds a graph from one line source per dataset.
type GraphBuilder interface {
	Build(ctx context.Context, sources Sources) (*graph.Graph, error)
}

// Compile-time check to ensure graph.Builder implements GraphBuilder
var _ GraphBuilder = (*graph.Builder)(nil)

// DataStore holds the published graph. The graph is published once and
// read concurrently afterwards.
type DataStore interface {
	GetGraph() (*graph.Graph, bool)
	GetQualityReport() *DataQualityReport
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdateData(g *graph.Graph, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Scheduler runs the build and the periodic health job.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports the status of the published graph.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}

// DataValidator checks a built graph before it is published.
type DataValidator interface {
	// ValidateGraph fails when the graph cannot be published
	ValidateGraph(g *graph.Graph) error

	// ReportDataQuality lists the referential issues found in the graph
	ReportDataQuality(g *graph.Graph) *DataQualityReport
}
