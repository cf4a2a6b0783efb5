package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/giygas/medicaments-graph/data"
	"github.com/giygas/medicaments-graph/graph"
	"github.com/giygas/medicaments-graph/handlers"
	"github.com/giygas/medicaments-graph/health"
	"github.com/giygas/medicaments-graph/interfaces"
	"github.com/giygas/medicaments-graph/logging"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
)

func publishedGraph(t *testing.T) *graph.Graph {
	t.Helper()
	sources := make(map[mp.Dataset]mp.LineSource)
	for _, dataset := range mp.Datasets() {
		sources[dataset] = mp.NewStringSource(string(dataset), "")
	}
	sources[mp.Medicaments] = mp.NewStringSource("medicaments",
		"123\tDOLIPRANE 500 mg\tcomprimé\torale\tAutorisation active\tProcédure nationale\tCommercialisée\t21/03/2019\t\t\tSANOFI\tNon")

	g, err := graph.NewBuilder().Build(context.Background(), sources)
	if err != nil {
		t.Fatalf("Build unexpected error: %v", err)
	}
	return g
}

// newRouter mounts the graph endpoints behind the request logger
func newRouter(t *testing.T, publish bool, out *bytes.Buffer) http.Handler {
	t.Helper()
	container := data.NewDataContainer()
	if publish {
		container.UpdateData(publishedGraph(t), &interfaces.DataQualityReport{})
	}
	h := handlers.NewHTTPHandler(container, health.NewHealthChecker(container))

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.LoggingMiddleware(logger))
	r.Get("/health", h.HealthCheck)
	r.Get("/stats", h.ServeStats)
	r.Get("/quality", h.ServeQualityReport)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	return r
}

func TestLoggingMiddlewareGraphEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		publish   bool
		target    string
		wantCode  int
		wantLevel string
	}{
		{"stats with a graph", true, "/stats", http.StatusOK, "level=INFO"},
		{"quality with a graph", true, "/quality", http.StatusOK, "level=INFO"},
		{"stats while building", false, "/stats", http.StatusServiceUnavailable, "level=WARN"},
		{"quality while building", false, "/quality", http.StatusServiceUnavailable, "level=WARN"},
		{"unknown route", true, "/medicaments", http.StatusNotFound, "level=WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			router := newRouter(t, tt.publish, &out)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			logs := out.String()
			if strings.Count(logs, "HTTP request") != 1 {
				t.Fatalf("want exactly one request record, got: %s", logs)
			}
			for _, want := range []string{tt.wantLevel, "path=" + tt.target, "method=GET"} {
				if !strings.Contains(logs, want) {
					t.Errorf("log should contain %q, got: %s", want, logs)
				}
			}
			if strings.Contains(logs, "request_id=unknown") {
				t.Errorf("request id from the router should be logged, got: %s", logs)
			}
			if !strings.Contains(logs, "status_code="+strconv.Itoa(tt.wantCode)) {
				t.Errorf("log should contain the status code, got: %s", logs)
			}
		})
	}
}

func TestLoggingMiddlewareQuietPaths(t *testing.T) {
	for _, publish := range []bool{true, false} {
		for _, target := range []string{"/health", "/metrics"} {
			var out bytes.Buffer
			router := newRouter(t, publish, &out)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

			if out.Len() != 0 {
				t.Errorf("%s (published=%v) should not be logged, got: %s", target, publish, out.String())
			}
		}
	}
}

func TestLoggingMiddlewareRecordsQuery(t *testing.T) {
	var out bytes.Buffer
	router := newRouter(t, true, &out)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stats", nil))
	if strings.Contains(out.String(), "query=") {
		t.Errorf("query should be omitted when empty, got: %s", out.String())
	}

	out.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quality?verbose", nil))
	if !strings.Contains(out.String(), "query=verbose") {
		t.Errorf("query should be logged, got: %s", out.String())
	}
}

func TestLoggingMiddlewareWithoutRequestID(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	handler := logging.LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, 12345))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logs := out.String()
	if !strings.Contains(logs, "request_id=unknown") {
		t.Errorf("non-string request id should fall back to unknown, got: %s", logs)
	}
	if !strings.Contains(logs, "level=ERROR") || !strings.Contains(logs, "status_code=500") {
		t.Errorf("5xx should be logged as an error, got: %s", logs)
	}
}
