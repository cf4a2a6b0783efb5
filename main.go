package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/medicaments-graph/config"
	"github.com/giygas/medicaments-graph/data"
	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/health"
	"github.com/giygas/medicaments-graph/interfaces"
	"github.com/giygas/medicaments-graph/logging"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/scheduler"
	"github.com/giygas/medicaments-graph/server"
	"github.com/giygas/medicaments-graph/validation"
	"github.com/joho/godotenv"
)

func loadEnv() error {
	if err := godotenv.Load(); err == nil {
		return nil
	}

	// If failed, try loading from executable directory
	ex, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	exPath := filepath.Dir(ex)
	if err := os.Chdir(exPath); err != nil {
		return fmt.Errorf("failed to change directory: %w", err)
	}
	// The environment may come from the process only
	_ = godotenv.Load()
	return nil
}

// newBuilder opens the ANSM export when one is configured. The returned
// closer must be called once the build is done.
func newBuilder(cfg *config.Config) (*graph.Builder, io.Closer, error) {
	if cfg.ANSMFile == "" {
		return graph.NewBuilder(), io.NopCloser(nil), nil
	}

	f, err := os.Open(cfg.ANSMFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ANSM file: %w", err)
	}
	logging.Info("Enriching medicaments from ANSM export", "file", cfg.ANSMFile, "key_column", cfg.ANSMKeyColumn)
	return graph.NewBuilder(graph.WithEnrichment(f, cfg.ANSMKeyColumn)), f, nil
}

func startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Error("Profiling server failed", "error", err)
		}
	}()
}

func main() {
	if err := loadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir, cfg.Env, cfg.LogLevel, cfg.LogRetentionWeeks)
	defer logging.Close()

	if cfg.Env == config.EnvDevelopment {
		startProfilingServer()
	}

	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())
	healthChecker := health.NewHealthChecker(container)

	builder, enrichment, err := newBuilder(cfg)
	if err != nil {
		logging.Error("Failed to create graph builder", "error", err)
		os.Exit(1)
	}

	sources := func() (interfaces.Sources, error) {
		return mp.DefaultSources(mp.SourceMode(cfg.SourceMode), cfg.BDPMBaseURL, cfg.DataDir)
	}
	sched := scheduler.NewScheduler(container, builder, sources,
		validation.NewDataValidator(), healthChecker, cfg.HealthCheckInterval)
	srv := server.NewServer(cfg, container, healthChecker)

	// The health surface answers "building" while the graph is ingested
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	buildErr := make(chan error, 1)
	go func() {
		err := sched.Start()
		if cerr := enrichment.Close(); cerr != nil {
			logging.Warn("Failed to close ANSM file", "error", cerr)
		}
		if err != nil {
			buildErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logging.Info("Received signal", "signal", sig.String())
	case err := <-buildErr:
		logging.Error("Graph build failed", "error", err)
		exitCode = 1
	case err := <-serverErr:
		logging.Error("Server failed to start", "error", err)
		exitCode = 1
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		exitCode = 1
	}

	if exitCode != 0 {
		cancel()
		_ = logging.Close()
		os.Exit(exitCode)
	}
}
