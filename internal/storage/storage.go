// Package storage is the citation-addressed archive engine. Sections are
// versioned by effective date under their storage key, indexed for full-text
// search, and linked through a persistent cross-reference edge table. The
// engine is the sole owner of derived data: search rows and reference edges
// are always recomputed from stored sections, never written independently.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package storage

import (
	"database/sql"
	"sync"

	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
)

// DriverName returns the SQL driver name in use.
func DriverName() string {
	return driverName
}

// DriverType identifies the underlying implementation: "purego" for
// modernc.org/sqlite, "cgo" for mattn/go-sqlite3.
func DriverType() string {
	return driverType
}

// Engine is a citation-addressed section store over a single SQLite file.
// All methods are safe for concurrent use.
type Engine struct {
	db *sql.DB

	// rebuildMu is held shared by readers and writers, exclusively by
	// RebuildCrossReferences so nobody observes a half-built graph.
	rebuildMu sync.RWMutex

	// writers serializes stores per section key.
	writers *keyLock
}

// Open opens (creating if needed) the archive database at path and applies
// the schema. Use ":memory:" for an ephemeral archive.
func Open(path string) (*Engine, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, apperrors.NewStorage("open", path, err)
	}

	// Pragmas are per-connection; pin the pool to one so they hold for
	// every statement. The engine's own locks govern concurrency above.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, apperrors.NewStorage("open", path, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.NewStorage("migrate", path, err)
	}

	return &Engine{
		db:      db,
		writers: newKeyLock(),
	}, nil
}

// Close releases the underlying database.
func (e *Engine) Close() error {
	return e.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS sections (
	id             INTEGER PRIMARY KEY,
	section_key    TEXT NOT NULL,
	jurisdiction   TEXT NOT NULL,
	doc_type       TEXT NOT NULL,
	code           TEXT NOT NULL,
	section        TEXT NOT NULL,
	effective_date TEXT NOT NULL DEFAULT '',
	title_name     TEXT NOT NULL DEFAULT '',
	section_title  TEXT NOT NULL DEFAULT '',
	body_text      TEXT NOT NULL DEFAULT '',
	subsections    TEXT NOT NULL DEFAULT '[]',
	enacted_date   TEXT NOT NULL DEFAULT '',
	last_amended   TEXT NOT NULL DEFAULT '',
	public_laws    TEXT NOT NULL DEFAULT '[]',
	ref_markers    TEXT NOT NULL DEFAULT '[]',
	source_url     TEXT NOT NULL DEFAULT '',
	retrieved_at   TEXT NOT NULL DEFAULT '',
	source_id      TEXT NOT NULL DEFAULT '',
	UNIQUE (section_key, effective_date)
);

CREATE INDEX IF NOT EXISTS idx_sections_jurisdiction
	ON sections (jurisdiction, code);

CREATE VIRTUAL TABLE IF NOT EXISTS sections_fts USING fts5(
	section_key UNINDEXED,
	jurisdiction UNINDEXED,
	section_title,
	content
);

CREATE TABLE IF NOT EXISTS crossrefs (
	from_key       TEXT NOT NULL,
	to_key         TEXT NOT NULL,
	to_section_key TEXT NOT NULL,
	raw            TEXT NOT NULL DEFAULT '',
	ref_type       TEXT NOT NULL,
	UNIQUE (from_key, to_key)
);

CREATE INDEX IF NOT EXISTS idx_crossrefs_to_section
	ON crossrefs (to_section_key);
`
