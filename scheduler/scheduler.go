// Package scheduler runs the graph build and the periodic health monitoring
// of the published graph. The graph is built once per process lifetime; the
// gocron job only watches its age and status afterwards.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/medicaments-graph/interfaces"
	"github.com/giygas/medicaments-graph/logging"
	"github.com/giygas/medicaments-graph/validation"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// SourcesFunc opens the dataset sources of one build
type SourcesFunc func() (interfaces.Sources, error)

// Scheduler builds the graph and monitors it using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	builder   interfaces.GraphBuilder
	sources   SourcesFunc
	validator interfaces.DataValidator
	health    interfaces.HealthChecker
	interval  time.Duration
	scheduler *gocron.Scheduler

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// interval is the period of the health monitoring job.
func NewScheduler(
	dataStore interfaces.DataStore,
	builder interfaces.GraphBuilder,
	sources SourcesFunc,
	validator interfaces.DataValidator,
	health interfaces.HealthChecker,
	interval time.Duration,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		dataStore: dataStore,
		builder:   builder,
		sources:   sources,
		validator: validator,
		health:    health,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start builds the graph, publishes it and schedules the health monitoring
func (s *Scheduler) Start() error {
	if err := s.buildGraph(s.ctx); err != nil {
		logging.Error("Failed to build the graph", "error", err)
		return fmt.Errorf("initial graph build failed: %w", err)
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.checkHealth)
	if err != nil {
		logging.Error("Failed to schedule health monitoring", "error", err)
		return fmt.Errorf("failed to schedule health monitoring: %w", err)
	}

	s.scheduler.StartAsync()

	return nil
}

// Stop cancels an in-flight build and stops the scheduler
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

// buildGraph performs a complete build using injected dependencies
func (s *Scheduler) buildGraph(ctx context.Context) error {
	// Prevent concurrent builds
	if !s.dataStore.BeginUpdate() {
		logging.Info("Build already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting graph build", "at", time.Now().Format(time.RFC3339))
	start := time.Now()

	sources, err := s.sources()
	if err != nil {
		return fmt.Errorf("failed to open dataset sources: %w", err)
	}

	g, err := s.builder.Build(ctx, sources)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	if err := s.validator.ValidateGraph(g); err != nil {
		return fmt.Errorf("graph validation failed: %w", err)
	}

	report := s.validator.ReportDataQuality(g)
	validation.LogReport(report)

	s.dataStore.UpdateData(g, report)

	logging.Info("Graph build completed",
		"duration", time.Since(start).String(),
		"medicament_count", g.Stats().Medicaments)

	return nil
}

// checkHealth logs the published graph status when it is not healthy
func (s *Scheduler) checkHealth() {
	status, data, _ := s.health.HealthCheck()
	if status == "healthy" {
		logging.Debug("Graph health check", "status", status)
		return
	}

	logging.Warn("Graph is not healthy",
		"status", status,
		"last_update", data["last_update"],
		"data_age_hours", data["data_age_hours"])
}
