package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/health"
	"github.com/giygas/medicaments-graph/interfaces"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/validation"
)

// mockSchedulerDataStore for testing scheduler
type mockSchedulerDataStore struct {
	graph       *graph.Graph
	report      *interfaces.DataQualityReport
	lastUpdated time.Time
	updating    bool
	updateCount int
}

func (m *mockSchedulerDataStore) GetGraph() (*graph.Graph, bool) {
	return m.graph, m.graph != nil
}

func (m *mockSchedulerDataStore) GetQualityReport() *interfaces.DataQualityReport {
	return m.report
}

func (m *mockSchedulerDataStore) GetLastUpdated() time.Time {
	return m.lastUpdated
}

func (m *mockSchedulerDataStore) IsUpdating() bool {
	return m.updating
}

func (m *mockSchedulerDataStore) GetServerStartTime() time.Time {
	return time.Time{}
}

func (m *mockSchedulerDataStore) UpdateData(g *graph.Graph, report *interfaces.DataQualityReport) {
	m.graph = g
	m.report = report
	m.lastUpdated = g.BuiltAt()
	m.updateCount++
}

func (m *mockSchedulerDataStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *mockSchedulerDataStore) EndUpdate() {
	m.updating = false
}

// failingBuilder always returns its error
type failingBuilder struct {
	err error
}

func (b failingBuilder) Build(ctx context.Context, sources interfaces.Sources) (*graph.Graph, error) {
	return nil, b.err
}

func fixtureSources(medicaments ...string) SourcesFunc {
	return func() (interfaces.Sources, error) {
		sources := make(interfaces.Sources)
		for _, dataset := range mp.Datasets() {
			sources[dataset] = mp.NewStringSource(string(dataset), "")
		}
		sources[mp.Medicaments] = mp.NewStringSource("medicaments", strings.Join(medicaments, "\n"))
		sources[mp.Presentations] = mp.NewStringSource("presentations",
			"123\t1000001\tplaquette 8\tPrésentation active\tDéclaration de commercialisation\t01/01/2020\t3400910000011")
		return sources, nil
	}
}

const doliprane = "123\tDOLIPRANE 500 mg\tcomprimé\torale\tAutorisation active\tProcédure nationale\tCommercialisée\t21/03/2019\t\t\tSANOFI\tNon"

func newTestScheduler(store *mockSchedulerDataStore, builder interfaces.GraphBuilder, sources SourcesFunc) *Scheduler {
	return NewScheduler(store, builder, sources, validation.NewDataValidator(), health.NewHealthChecker(store), time.Minute)
}

func TestStartPublishesGraph(t *testing.T) {
	store := &mockSchedulerDataStore{}
	s := newTestScheduler(store, graph.NewBuilder(), fixtureSources(doliprane))

	if err := s.Start(); err != nil {
		t.Fatalf("Start unexpected error: %v", err)
	}
	defer s.Stop()

	if store.updateCount != 1 {
		t.Errorf("updateCount = %d, want 1", store.updateCount)
	}
	if store.updating {
		t.Error("update flag should be cleared after the build")
	}
	g, ok := store.GetGraph()
	if !ok {
		t.Fatal("graph was not published")
	}
	if _, ok := g.Medicament("123"); !ok {
		t.Error("medicament 123 missing from the published graph")
	}
	if store.report == nil || store.report.MedicamentsWithoutPresentations != 0 {
		t.Errorf("unexpected report %+v", store.report)
	}
}

func TestStartBuildErrors(t *testing.T) {
	buildErr := errors.New("boom")
	sourcesErr := errors.New("no data dir")

	tests := []struct {
		name    string
		builder interfaces.GraphBuilder
		sources SourcesFunc
		wantErr error
	}{
		{"builder error", failingBuilder{err: buildErr}, fixtureSources(doliprane), buildErr},
		{"sources error", graph.NewBuilder(), func() (interfaces.Sources, error) { return nil, sourcesErr }, sourcesErr},
		{"missing source", graph.NewBuilder(), func() (interfaces.Sources, error) { return interfaces.Sources{}, nil }, graph.ErrMissingSource},
		{"empty graph", graph.NewBuilder(), fixtureSources(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockSchedulerDataStore{}
			s := newTestScheduler(store, tt.builder, tt.sources)
			defer s.Stop()

			err := s.Start()
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if store.updateCount != 0 {
				t.Errorf("no graph should be published, got %d updates", store.updateCount)
			}
			if store.updating {
				t.Error("update flag should be cleared after a failed build")
			}
		})
	}
}

func TestBuildSkippedWhileUpdating(t *testing.T) {
	store := &mockSchedulerDataStore{updating: true}
	s := newTestScheduler(store, failingBuilder{err: errors.New("should not run")}, fixtureSources(doliprane))
	defer s.Stop()

	if err := s.buildGraph(context.Background()); err != nil {
		t.Errorf("buildGraph unexpected error: %v", err)
	}
	if store.updateCount != 0 {
		t.Errorf("updateCount = %d, want 0", store.updateCount)
	}
}

func TestStopCancelsBuild(t *testing.T) {
	store := &mockSchedulerDataStore{}
	s := newTestScheduler(store, graph.NewBuilder(), fixtureSources(doliprane))
	s.Stop()

	err := s.Start()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestCheckHealth(t *testing.T) {
	store := &mockSchedulerDataStore{}
	s := newTestScheduler(store, graph.NewBuilder(), fixtureSources(doliprane))
	defer s.Stop()

	// unhealthy without graph
	s.checkHealth()

	if err := s.buildGraph(context.Background()); err != nil {
		t.Fatalf("buildGraph unexpected error: %v", err)
	}
	s.checkHealth()

	store.lastUpdated = time.Now().Add(-30 * time.Hour)
	s.checkHealth()
}
