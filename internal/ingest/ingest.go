// Package ingest drives batch acquisition: it resolves a converter, fetches
// and parses each requested citation, snapshots the raw bytes, and stores the
// resulting sections. Failures are isolated per document; one bad section
// never aborts a run.
package ingest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	"github.com/FocuswithJustin/CedarLaw/core/converter"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/internal/logging"
	"github.com/FocuswithJustin/CedarLaw/internal/snapshot"
	"github.com/FocuswithJustin/CedarLaw/internal/storage"
)

const defaultConcurrency = 4

// Failure records one document that could not be ingested.
type Failure struct {
	// Citation addresses the failed document.
	Citation citation.Citation

	// Operation is the stage that failed: "fetch", "parse", or "store".
	Operation string

	// Err is the underlying error.
	Err error
}

// Report summarizes one ingestion run.
type Report struct {
	// RunID uniquely identifies the run in logs.
	RunID string

	// Requested is the number of citations in the batch.
	Requested int

	// Stored is the number of sections successfully written.
	Stored int

	// Snapshots maps storage keys to the content hash of the raw bytes each
	// section was converted from. Empty when the runner has no snapshot
	// store.
	Snapshots map[string]string

	// Failures lists the documents that could not be ingested.
	Failures []Failure
}

// Runner ingests batches of citations through a converter into the archive.
type Runner struct {
	// Registry resolves converters. Required.
	Registry *converter.Registry

	// Engine is the archive to write into. Required.
	Engine *storage.Engine

	// Snapshots, when set, archives the raw source bytes of every fetched
	// document before conversion.
	Snapshots *snapshot.Store

	// Concurrency bounds the number of documents in flight. Zero means a
	// small default.
	Concurrency int
}

// IngestBatch fetches, converts, and stores every citation in the batch
// using the converter registered for the jurisdiction and format. The
// returned error covers run-level problems only (no converter, context
// cancelled); per-document errors land in the report's failure list.
func (r *Runner) IngestBatch(ctx context.Context, jurisdiction, format string, citations []citation.Citation) (*Report, error) {
	conv, err := r.Registry.Resolve(jurisdiction, format)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Requested: len(citations),
		Snapshots: make(map[string]string),
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	logging.IngestRun(ctx, "start", jurisdiction, len(citations),
		"format", conv.Format())

	limit := r.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, c := range citations {
		c := c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key, hash, err := r.ingestOne(gctx, conv, c)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				var failure Failure
				if !apperrors.As(err, &failure) {
					failure = Failure{Citation: c, Operation: "ingest", Err: err}
				}
				report.Failures = append(report.Failures, failure)
				logging.IngestFailure(gctx, c.String(), failure.Operation, failure.Err)
				return nil
			}
			report.Stored++
			if hash != "" {
				report.Snapshots[key] = hash
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, apperrors.Wrap(err, "ingest run aborted")
	}

	logging.IngestRun(ctx, "done", jurisdiction, report.Stored,
		"failed", len(report.Failures))
	return report, nil
}

// ingestOne runs a single document through fetch, snapshot, parse, store.
func (r *Runner) ingestOne(ctx context.Context, conv converter.Converter, c citation.Citation) (key, hash string, err error) {
	raw, err := conv.Fetch(ctx, c)
	if err != nil {
		return "", "", Failure{Citation: c, Operation: "fetch", Err: err}
	}

	if r.Snapshots != nil {
		hash, err = r.Snapshots.Put(raw)
		if err != nil {
			return "", "", Failure{Citation: c, Operation: "snapshot", Err: err}
		}
	}

	sec, err := conv.Parse(raw, "")
	if err != nil {
		return "", "", Failure{Citation: c, Operation: "parse", Err: err}
	}

	if err := r.Engine.StoreSection(ctx, sec); err != nil {
		return "", "", Failure{Citation: c, Operation: "store", Err: err}
	}
	return sec.Citation.SectionKey(), hash, nil
}

// Error makes Failure usable as an error inside the pipeline.
func (f Failure) Error() string {
	msg := f.Operation + " failed"
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (f Failure) Unwrap() error { return f.Err }
