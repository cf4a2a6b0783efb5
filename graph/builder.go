// Package graph builds the in-memory BDPM graph: it ingests every dataset
// concurrently into its indexes, attaches the lazy relations, runs the
// post-processing steps once all datasets are loaded, and returns an
// immutable Graph.
package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/giygas/medicaments-graph/logging"
	mp "github.com/giygas/medicaments-graph/medicamentsparser"
	"github.com/giygas/medicaments-graph/medicamentsparser/entities"
	"github.com/giygas/medicaments-graph/metrics"
	"golang.org/x/sync/errgroup"
)

// ErrMissingSource is returned when a dataset has no line source.
var ErrMissingSource = errors.New("missing dataset source")

// DefaultEnrichmentKey is the ANSM column holding the CIS.
const DefaultEnrichmentKey = "specid"

// Option configures a Builder.
type Option func(*Builder)

// WithEnrichment reads indications and posologie from an ANSM CSV export
// once the datasets are loaded. keyColumn defaults to DefaultEnrichmentKey.
func WithEnrichment(r io.Reader, keyColumn string) Option {
	return func(b *Builder) {
		b.enrichment = r
		if keyColumn != "" {
			b.enrichmentKey = keyColumn
		}
	}
}

// WithSchemas overrides the dataset schema table.
func WithSchemas(schemas map[mp.Dataset]mp.Schema) Option {
	return func(b *Builder) {
		b.schemas = schemas
	}
}

// Builder assembles a Graph from one line source per dataset.
type Builder struct {
	schemas       map[mp.Dataset]mp.Schema
	enrichment    io.Reader
	enrichmentKey string
}

// NewBuilder creates a builder using the static schema table
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		schemas:       mp.Schemas(),
		enrichmentKey: DefaultEnrichmentKey,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// recordHandler indexes one parsed record and attaches its relations
type recordHandler func(rec mp.Record) error

func (b *Builder) handlers(ix *indexes) map[mp.Dataset]recordHandler {
	return map[mp.Dataset]recordHandler{
		mp.Medicaments: func(rec mp.Record) error {
			m, err := entities.NewMedicament(rec)
			if err != nil {
				return err
			}
			if err := ix.medicaments.Add(m); err != nil {
				return err
			}
			m.Attach(ix)
			return nil
		},
		mp.Presentations: func(rec mp.Record) error {
			p, err := entities.NewPresentation(rec)
			if err != nil {
				return err
			}
			if err := ix.presentations.Add(p); err != nil {
				return err
			}
			p.Attach(ix)
			return nil
		},
		mp.Substances: func(rec mp.Record) error {
			s, err := entities.NewSubstance(rec)
			if err != nil {
				return err
			}
			if err := ix.substances.Add(s); err != nil {
				return err
			}
			s.Attach(ix)
			return nil
		},
		mp.GroupesGeneriques: func(rec mp.Record) error {
			row, err := entities.NewGroupeGeneriqueRow(rec)
			if err != nil {
				return err
			}
			return ix.groupRows.Add(row)
		},
		mp.Conditions: func(rec mp.Record) error {
			c, err := entities.NewCondition(rec)
			if err != nil {
				return err
			}
			return ix.conditions.Add(c)
		},
	}
}

// Build ingests every dataset concurrently, then post-processes the
// indexes. The first fatal error aborts the whole build and no graph is
// returned.
func (b *Builder) Build(ctx context.Context, sources map[mp.Dataset]mp.LineSource) (*Graph, error) {
	start := time.Now()

	g, err := b.build(ctx, sources)
	if err != nil {
		metrics.GraphBuildErrors.Inc()
		logging.Error("Graph build failed", "error", err, "duration", time.Since(start).String())
		return nil, err
	}

	metrics.GraphBuildDuration.Observe(time.Since(start).Seconds())
	logging.Info("Graph build completed", "duration", time.Since(start).String())
	return g, nil
}

func (b *Builder) build(ctx context.Context, sources map[mp.Dataset]mp.LineSource) (*Graph, error) {
	for _, dataset := range mp.Datasets() {
		if sources[dataset] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, dataset)
		}
		if _, ok := b.schemas[dataset]; !ok {
			return nil, fmt.Errorf("no schema for dataset %s", dataset)
		}
	}

	logging.Info("Building graph...")
	ix := newIndexes()
	handlers := b.handlers(ix)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, dataset := range mp.Datasets() {
		eg.Go(func() error {
			return ingest(egCtx, b.schemas[dataset], sources[dataset], handlers[dataset])
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	aggregateDenominations(ix)
	pivotGroupesGeneriques(ix)

	if b.enrichment != nil {
		if err := enrich(ix, b.enrichment, b.enrichmentKey); err != nil {
			return nil, err
		}
	}

	return newGraph(ix, time.Now()), nil
}

// ingestStats counts what happened to the lines of one dataset
type ingestStats struct {
	lines   int
	empty   int
	skipped int
	parsed  int
}

// ingest consumes one dataset in source order. Malformed lines are logged
// and skipped; transform and index errors are returned.
func ingest(ctx context.Context, schema mp.Schema, source mp.LineSource, handle recordHandler) error {
	parser := mp.NewLineParser(schema)
	dataset := string(schema.Dataset)
	var stats ingestStats

	defer func() {
		metrics.IngestLinesTotal.WithLabelValues(dataset, "parsed").Add(float64(stats.parsed))
		metrics.IngestLinesTotal.WithLabelValues(dataset, "skipped").Add(float64(stats.skipped))
		metrics.IngestLinesTotal.WithLabelValues(dataset, "empty").Add(float64(stats.empty))
	}()

	for line, err := range source.Lines(ctx) {
		if err != nil {
			return fmt.Errorf("%s: %w", dataset, err)
		}
		stats.lines++

		// Some BDPM files have empty lines between the data
		if strings.TrimSpace(line) == "" {
			stats.empty++
			continue
		}

		if !parser.Validate(line) {
			stats.skipped++
			logging.Warn("Line ignored", "dataset", dataset, "line", stats.lines, "content", line)
			continue
		}

		rec, err := parser.Parse(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", stats.lines, err)
		}

		if err := handle(rec); err != nil {
			return fmt.Errorf("%s line %d: %w", dataset, stats.lines, err)
		}
		stats.parsed++
	}

	logging.Info(fmt.Sprintf("Processed %s", schema.FileName),
		"total_lines", stats.lines,
		"records_parsed", stats.parsed,
		"skipped_lines", stats.skipped,
		"empty_lines", stats.empty)
	return nil
}
