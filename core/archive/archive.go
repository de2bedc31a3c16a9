// Package archive is the top-level facade over the legal text archive: one
// handle that parses citations, stores and retrieves sections, searches full
// text, and answers cross-reference queries. Library consumers normally use
// this package alone; the packages underneath stay importable for callers
// that need finer control.
package archive

import (
	"context"
	"strings"
	"time"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	"github.com/FocuswithJustin/CedarLaw/core/converter"
	"github.com/FocuswithJustin/CedarLaw/core/crossref"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/core/law"
	"github.com/FocuswithJustin/CedarLaw/internal/ingest"
	"github.com/FocuswithJustin/CedarLaw/internal/snapshot"
	"github.com/FocuswithJustin/CedarLaw/internal/storage"
)

// Archive is a handle on one archive database. Safe for concurrent use.
type Archive struct {
	engine      *storage.Engine
	registry    *converter.Registry
	snapshots   *snapshot.Store
	snapshotDir string
}

// Option configures an Archive at open time.
type Option func(*Archive)

// WithRegistry uses the given converter registry instead of the package-level
// default registry.
func WithRegistry(reg *converter.Registry) Option {
	return func(a *Archive) { a.registry = reg }
}

// WithSnapshots attaches a content-addressed snapshot store rooted at dir.
// Ingest runs then archive the raw source bytes of every fetched document.
func WithSnapshots(dir string) Option {
	return func(a *Archive) { a.snapshotDir = dir }
}

// Open opens (creating if needed) the archive database at path. Use
// ":memory:" for an ephemeral archive.
func Open(path string, opts ...Option) (*Archive, error) {
	engine, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	a := &Archive{engine: engine}
	for _, opt := range opts {
		opt(a)
	}
	if a.snapshotDir != "" {
		store, err := snapshot.NewStore(a.snapshotDir)
		if err != nil {
			engine.Close()
			return nil, err
		}
		a.snapshots = store
	}
	return a, nil
}

// Close releases the archive.
func (a *Archive) Close() error {
	return a.engine.Close()
}

// Store writes one section version into the archive.
func (a *Archive) Store(ctx context.Context, sec *law.Section) error {
	return a.engine.StoreSection(ctx, sec)
}

// Get retrieves the section addressed by a citation string, in any supported
// grammar. A zero asOf returns the latest version; otherwise the version in
// force on that date. Citations addressing a subsection resolve to the
// containing section.
func (a *Archive) Get(ctx context.Context, cite string, asOf time.Time) (*law.Section, error) {
	c, err := citation.Parse(cite)
	if err != nil {
		return nil, err
	}
	return a.GetCitation(ctx, c, asOf)
}

// GetCitation is Get for an already-parsed citation.
func (a *Archive) GetCitation(ctx context.Context, c citation.Citation, asOf time.Time) (*law.Section, error) {
	sec, err := a.engine.GetSection(ctx, c, asOf)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, apperrors.NewNotFound("section", c.SectionKey())
	}
	return sec, nil
}

// GetText returns the text addressed by a citation string: the aggregated
// section text, or the aggregated subtree text when the citation addresses a
// subsection.
func (a *Archive) GetText(ctx context.Context, cite string, asOf time.Time) (string, error) {
	c, err := citation.Parse(cite)
	if err != nil {
		return "", err
	}
	sec, err := a.GetCitation(ctx, c, asOf)
	if err != nil {
		return "", err
	}
	if len(c.SubsectionPath) == 0 {
		return sec.FullText(), nil
	}
	text, ok := sec.GetSubsectionText(strings.Join(c.SubsectionPath, "/"))
	if !ok {
		return "", apperrors.NewNotFound("subsection", c.StorageKey())
	}
	return text, nil
}

// Search runs ranked full-text search over the latest stored versions. An
// empty jurisdiction searches everything.
func (a *Archive) Search(ctx context.Context, query, jurisdiction string, limit int) ([]law.SearchResult, error) {
	return a.engine.Search(ctx, query, jurisdiction, limit)
}

// ReferencesTo returns the provisions a section cites.
func (a *Archive) ReferencesTo(ctx context.Context, c citation.Citation) ([]*crossref.Reference, error) {
	return a.engine.ReferencesTo(ctx, c)
}

// ReferencedBy returns the sections that cite a provision.
func (a *Archive) ReferencedBy(ctx context.Context, c citation.Citation) ([]*crossref.Reference, error) {
	return a.engine.ReferencedBy(ctx, c)
}

// RebuildCrossReferences re-derives the whole reference graph from stored
// sections and returns the edge count.
func (a *Archive) RebuildCrossReferences(ctx context.Context) (int, error) {
	return a.engine.RebuildCrossReferences(ctx)
}

// ListVersions returns the stored effective dates for a section, oldest first.
func (a *Archive) ListVersions(ctx context.Context, c citation.Citation) ([]time.Time, error) {
	return a.engine.ListVersions(ctx, c)
}

// ListTitles aggregates per-title metadata for a jurisdiction.
func (a *Archive) ListTitles(ctx context.Context, jurisdiction string) ([]law.TitleInfo, error) {
	return a.engine.ListTitles(ctx, jurisdiction)
}

// ListJurisdictions aggregates metadata for every jurisdiction with stored
// sections.
func (a *Archive) ListJurisdictions(ctx context.Context) ([]law.JurisdictionInfo, error) {
	return a.engine.ListJurisdictions(ctx)
}

// Purge removes every stored version of a section.
func (a *Archive) Purge(ctx context.Context, c citation.Citation) error {
	return a.engine.Purge(ctx, c)
}

// Ingest fetches, converts, and stores a batch of citations using the
// registered converter for the jurisdiction and format. Per-document
// failures land in the report, not the error.
func (a *Archive) Ingest(ctx context.Context, jurisdiction, format string, cites []citation.Citation) (*ingest.Report, error) {
	registry := a.registry
	if registry == nil {
		registry = converter.DefaultRegistry()
	}
	runner := &ingest.Runner{
		Registry:  registry,
		Engine:    a.engine,
		Snapshots: a.snapshots,
	}
	return runner.IngestBatch(ctx, jurisdiction, format, cites)
}
