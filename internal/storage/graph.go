package storage

import (
	"context"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	"github.com/FocuswithJustin/CedarLaw/core/crossref"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/internal/logging"
)

// ReferencesTo returns the outgoing reference edges of a section, ordered by
// target key. Edges may point at sections not (yet) stored; the graph
// records citations in text, not archive coverage.
func (e *Engine) ReferencesTo(ctx context.Context, c citation.Citation) ([]*crossref.Reference, error) {
	e.rebuildMu.RLock()
	defer e.rebuildMu.RUnlock()
	return e.referencesFrom(ctx, c.SectionKey())
}

// ReferencedBy returns the incoming reference edges of a section, ordered by
// source key. Edges whose target cites a subsection of the section count.
func (e *Engine) ReferencedBy(ctx context.Context, c citation.Citation) ([]*crossref.Reference, error) {
	e.rebuildMu.RLock()
	defer e.rebuildMu.RUnlock()
	return e.referencesInto(ctx, c.SectionKey())
}

func (e *Engine) referencesFrom(ctx context.Context, key string) ([]*crossref.Reference, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT from_key, to_key, raw, ref_type
		FROM crossrefs
		WHERE from_key = ?
		ORDER BY to_key`, key)
	if err != nil {
		return nil, apperrors.NewStorage("refs", key, err)
	}
	defer rows.Close()
	return scanRefs(rows, key)
}

func (e *Engine) referencesInto(ctx context.Context, key string) ([]*crossref.Reference, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT from_key, to_key, raw, ref_type
		FROM crossrefs
		WHERE to_section_key = ?
		ORDER BY from_key, to_key`, key)
	if err != nil {
		return nil, apperrors.NewStorage("refs", key, err)
	}
	defer rows.Close()
	return scanRefs(rows, key)
}

type refRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRefs(rows refRows, key string) ([]*crossref.Reference, error) {
	var refs []*crossref.Reference
	for rows.Next() {
		var fromKey, toKey, raw, refType string
		if err := rows.Scan(&fromKey, &toKey, &raw, &refType); err != nil {
			return nil, apperrors.NewStorage("refs", key, err)
		}
		source, err := citation.ParseKey(fromKey)
		if err != nil {
			return nil, apperrors.NewStorage("refs", fromKey, err)
		}
		target, err := citation.ParseKey(toKey)
		if err != nil {
			return nil, apperrors.NewStorage("refs", toKey, err)
		}
		refs = append(refs, &crossref.Reference{
			Source: source,
			Target: target,
			Raw:    raw,
			Type:   crossref.RefType(refType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("refs", key, err)
	}
	return refs, nil
}

// RebuildCrossReferences drops the edge table and re-extracts references
// from the latest version of every stored section. The rebuild holds the
// engine's exclusive lock so no reader observes a half-built graph. Running
// it twice yields the same edges; it returns the edge count.
func (e *Engine) RebuildCrossReferences(ctx context.Context) (int, error) {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.NewStorage("rebuild", "", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM crossrefs`); err != nil {
		return 0, apperrors.NewStorage("rebuild", "", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT `+sectionColumns+`
		FROM sections s
		WHERE effective_date = (
			SELECT MAX(effective_date) FROM sections
			WHERE section_key = s.section_key
		)
		ORDER BY section_key`)
	if err != nil {
		return 0, apperrors.NewStorage("rebuild", "", err)
	}

	type extracted struct {
		key  string
		refs []*crossref.Reference
	}
	var sections []extracted
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			rows.Close()
			return 0, apperrors.NewStorage("rebuild", "", err)
		}
		key := sec.Citation.SectionKey()
		refs, failures := crossref.Extract(sec)
		for _, f := range failures {
			logging.ReferenceDropped(key, f.Raw, f.Err)
		}
		sections = append(sections, extracted{key, refs})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, apperrors.NewStorage("rebuild", "", err)
	}
	rows.Close()

	count := 0
	for _, s := range sections {
		if err := replaceOutgoingRefs(ctx, tx, s.key, s.refs); err != nil {
			return 0, apperrors.NewStorage("rebuild", s.key, err)
		}
		count += len(s.refs)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.NewStorage("rebuild", "", err)
	}
	return count, nil
}
