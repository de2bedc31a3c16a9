package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	"github.com/FocuswithJustin/CedarLaw/core/crossref"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/core/law"
	"github.com/FocuswithJustin/CedarLaw/internal/logging"
)

// dateFormat is the canonical column encoding for calendar dates. A zero
// time stores as the empty string, which sorts before every real date.
const dateFormat = "2006-01-02"

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateFormat)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fmtTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StoreSection writes one section version and refreshes everything derived
// from it: the full-text row and the outgoing reference edges. The write is a
// single transaction keyed (section, effective date); re-storing the same
// version replaces it. Reference markers that fail to resolve are logged and
// dropped, never fatal.
func (e *Engine) StoreSection(ctx context.Context, sec *law.Section) error {
	if sec == nil {
		return apperrors.NewStorage("store", "", apperrors.Wrap(apperrors.ErrStorage, "nil section"))
	}
	c := sec.Citation
	if !citation.IsKnownJurisdiction(c.Jurisdiction) {
		return apperrors.NewStorage("store", c.StorageKey(),
			apperrors.NewSyntax(c.Jurisdiction, "unknown jurisdiction"))
	}
	if c.Section == "" {
		return apperrors.NewStorage("store", c.StorageKey(),
			apperrors.NewSyntax(c.StorageKey(), "citation has no section"))
	}

	key := c.SectionKey()

	refs, failures := crossref.Extract(sec)
	for _, f := range failures {
		logging.ReferenceDropped(key, f.Raw, f.Err)
	}

	e.rebuildMu.RLock()
	defer e.rebuildMu.RUnlock()
	e.writers.Lock(key)
	defer e.writers.Unlock(key)

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorage("store", key, err)
	}
	defer tx.Rollback()

	if err := upsertSection(ctx, tx, key, sec); err != nil {
		return apperrors.NewStorage("store", key, err)
	}
	if err := refreshSearchRow(ctx, tx, key); err != nil {
		return apperrors.NewStorage("index", key, err)
	}

	// Edges track the latest version, same as the search row: storing a
	// historical version must not rewrite the graph.
	latest, err := latestEffectiveDate(ctx, tx, key)
	if err != nil {
		return apperrors.NewStorage("link", key, err)
	}
	if latest == fmtDate(sec.EffectiveDate) {
		if err := replaceOutgoingRefs(ctx, tx, key, refs); err != nil {
			return apperrors.NewStorage("link", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorage("store", key, err)
	}

	logging.SectionStored(key, fmtDate(sec.EffectiveDate), len(refs),
		"jurisdiction", c.Jurisdiction)
	return nil
}

func latestEffectiveDate(ctx context.Context, tx *sql.Tx, key string) (string, error) {
	var latest sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(effective_date) FROM sections WHERE section_key = ?`, key).Scan(&latest)
	return latest.String, err
}

func upsertSection(ctx context.Context, tx *sql.Tx, key string, sec *law.Section) error {
	subsections, err := json.Marshal(sec.Subsections)
	if err != nil {
		return err
	}
	publicLaws, err := json.Marshal(sec.PublicLaws)
	if err != nil {
		return err
	}
	refMarkers, err := json.Marshal(sec.RefMarkers)
	if err != nil {
		return err
	}

	c := sec.Citation
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sections (
			section_key, jurisdiction, doc_type, code, section,
			effective_date, title_name, section_title, body_text,
			subsections, enacted_date, last_amended, public_laws,
			ref_markers, source_url, retrieved_at, source_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (section_key, effective_date) DO UPDATE SET
			title_name = excluded.title_name,
			section_title = excluded.section_title,
			body_text = excluded.body_text,
			subsections = excluded.subsections,
			enacted_date = excluded.enacted_date,
			last_amended = excluded.last_amended,
			public_laws = excluded.public_laws,
			ref_markers = excluded.ref_markers,
			source_url = excluded.source_url,
			retrieved_at = excluded.retrieved_at,
			source_id = excluded.source_id`,
		key, c.Jurisdiction, string(c.DocType), c.Code, c.Section,
		fmtDate(sec.EffectiveDate), sec.TitleName, sec.SectionTitle, sec.Text,
		string(subsections), fmtDate(sec.EnactedDate), fmtDate(sec.LastAmended),
		string(publicLaws), string(refMarkers), sec.SourceURL,
		fmtTimestamp(sec.RetrievedAt), sec.SourceID)
	return err
}

// refreshSearchRow rebuilds the full-text row for a section key from its
// latest stored version. The index always reflects exactly one version per
// section, so storing a historical version never demotes current text.
func refreshSearchRow(ctx context.Context, tx *sql.Tx, key string) error {
	row := tx.QueryRowContext(ctx, `
		SELECT jurisdiction, section_title, body_text, subsections
		FROM sections
		WHERE section_key = ?
		ORDER BY effective_date DESC
		LIMIT 1`, key)

	var jurisdiction, sectionTitle, bodyText, subsectionsJSON string
	if err := row.Scan(&jurisdiction, &sectionTitle, &bodyText, &subsectionsJSON); err != nil {
		return err
	}

	var subsections []*law.Subsection
	if err := json.Unmarshal([]byte(subsectionsJSON), &subsections); err != nil {
		return err
	}
	latest := law.Section{Text: bodyText, Subsections: subsections}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sections_fts WHERE section_key = ?`, key); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sections_fts (section_key, jurisdiction, section_title, content)
		VALUES (?, ?, ?, ?)`,
		key, jurisdiction, sectionTitle, latest.FullText())
	return err
}

func replaceOutgoingRefs(ctx context.Context, tx *sql.Tx, key string, refs []*crossref.Reference) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM crossrefs WHERE from_key = ?`, key); err != nil {
		return err
	}
	for _, ref := range refs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO crossrefs (from_key, to_key, to_section_key, raw, ref_type)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (from_key, to_key) DO UPDATE SET
				raw = excluded.raw,
				ref_type = excluded.ref_type`,
			key, ref.Target.StorageKey(), ref.Target.SectionKey(), ref.Raw, string(ref.Type))
		if err != nil {
			return err
		}
	}
	return nil
}

// Purge removes every stored version of a section, its search row, and its
// outgoing reference edges. Incoming edges stay: other sections still cite
// the purged provision in their text, and the graph records that.
func (e *Engine) Purge(ctx context.Context, c citation.Citation) error {
	key := c.SectionKey()

	e.rebuildMu.RLock()
	defer e.rebuildMu.RUnlock()
	e.writers.Lock(key)
	defer e.writers.Unlock(key)

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorage("purge", key, err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM sections WHERE section_key = ?`,
		`DELETE FROM sections_fts WHERE section_key = ?`,
		`DELETE FROM crossrefs WHERE from_key = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, key); err != nil {
			return apperrors.NewStorage("purge", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorage("purge", key, err)
	}
	return nil
}
