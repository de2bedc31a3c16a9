package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/core/law"
)

// maxDate caps as-of queries with no cutoff; every stored date sorts below it.
const maxDate = "9999-12-31"

const sectionColumns = `
	section_key, effective_date, title_name, section_title, body_text,
	subsections, enacted_date, last_amended, public_laws, ref_markers,
	source_url, retrieved_at, source_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSection(row rowScanner) (*law.Section, error) {
	var (
		key, effectiveDate, titleName, sectionTitle, bodyText string
		subsectionsJSON, enactedDate, lastAmended             string
		publicLawsJSON, refMarkersJSON                        string
		sourceURL, retrievedAt, sourceID                      string
	)
	if err := row.Scan(
		&key, &effectiveDate, &titleName, &sectionTitle, &bodyText,
		&subsectionsJSON, &enactedDate, &lastAmended, &publicLawsJSON,
		&refMarkersJSON, &sourceURL, &retrievedAt, &sourceID,
	); err != nil {
		return nil, err
	}

	c, err := citation.ParseKey(key)
	if err != nil {
		return nil, err
	}

	sec := &law.Section{
		Citation:      c,
		TitleName:     titleName,
		SectionTitle:  sectionTitle,
		Text:          bodyText,
		EffectiveDate: parseDate(effectiveDate),
		EnactedDate:   parseDate(enactedDate),
		LastAmended:   parseDate(lastAmended),
		SourceURL:     sourceURL,
		RetrievedAt:   parseTimestamp(retrievedAt),
		SourceID:      sourceID,
	}
	if err := json.Unmarshal([]byte(subsectionsJSON), &sec.Subsections); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(publicLawsJSON), &sec.PublicLaws); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(refMarkersJSON), &sec.RefMarkers); err != nil {
		return nil, err
	}
	return sec, nil
}

// GetSection retrieves a section by citation. A citation addressing a
// subsection resolves to its containing section; callers walk the subsection
// tree from there. With a zero asOf the latest version is returned; otherwise
// the latest version whose effective date does not exceed asOf. A nil section
// with a nil error means nothing matched.
func (e *Engine) GetSection(ctx context.Context, c citation.Citation, asOf time.Time) (*law.Section, error) {
	key := c.SectionKey()
	cutoff := maxDate
	if !asOf.IsZero() {
		cutoff = fmtDate(asOf)
	}

	e.rebuildMu.RLock()
	defer e.rebuildMu.RUnlock()

	row := e.db.QueryRowContext(ctx, `
		SELECT `+sectionColumns+`
		FROM sections
		WHERE section_key = ? AND effective_date <= ?
		ORDER BY effective_date DESC
		LIMIT 1`, key, cutoff)

	sec, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorage("get", key, err)
	}

	if err := e.attachRefs(ctx, sec); err != nil {
		return nil, apperrors.NewStorage("get", key, err)
	}
	return sec, nil
}

// attachRefs populates the derived reference lists from the edge table.
func (e *Engine) attachRefs(ctx context.Context, sec *law.Section) error {
	out, err := e.referencesFrom(ctx, sec.Citation.SectionKey())
	if err != nil {
		return err
	}
	for _, ref := range out {
		sec.ReferencesTo = append(sec.ReferencesTo, ref.Target)
	}

	in, err := e.referencesInto(ctx, sec.Citation.SectionKey())
	if err != nil {
		return err
	}
	for _, ref := range in {
		sec.ReferencedBy = append(sec.ReferencedBy, ref.Source)
	}
	return nil
}

// ListVersions returns the effective dates stored for a section, oldest
// first. A zero time represents a version with no effective date.
func (e *Engine) ListVersions(ctx context.Context, c citation.Citation) ([]time.Time, error) {
	key := c.SectionKey()
	rows, err := e.db.QueryContext(ctx, `
		SELECT effective_date FROM sections
		WHERE section_key = ?
		ORDER BY effective_date ASC`, key)
	if err != nil {
		return nil, apperrors.NewStorage("versions", key, err)
	}
	defer rows.Close()

	var versions []time.Time
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, apperrors.NewStorage("versions", key, err)
		}
		versions = append(versions, parseDate(date))
	}
	return versions, rows.Err()
}

// ListTitles aggregates per-title metadata for a jurisdiction from the
// stored sections. Counts and dates are recomputed on every call.
func (e *Engine) ListTitles(ctx context.Context, jurisdiction string) ([]law.TitleInfo, error) {
	if !citation.IsKnownJurisdiction(jurisdiction) {
		return nil, apperrors.NewSyntax(jurisdiction, "unknown jurisdiction")
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT code, MAX(title_name), COUNT(DISTINCT section_key), MAX(retrieved_at)
		FROM sections
		WHERE jurisdiction = ?
		GROUP BY code
		ORDER BY code`, jurisdiction)
	if err != nil {
		return nil, apperrors.NewStorage("titles", jurisdiction, err)
	}
	defer rows.Close()

	var titles []law.TitleInfo
	for rows.Next() {
		var info law.TitleInfo
		var lastUpdated string
		if err := rows.Scan(&info.Code, &info.Name, &info.SectionCount, &lastUpdated); err != nil {
			return nil, apperrors.NewStorage("titles", jurisdiction, err)
		}
		info.Jurisdiction = jurisdiction
		info.LastUpdated = parseTimestamp(lastUpdated)
		info.IsPositiveLaw = law.IsPositiveLawTitle(jurisdiction, info.Code)
		titles = append(titles, info)
	}
	return titles, rows.Err()
}

// ListJurisdictions aggregates per-jurisdiction metadata from the stored
// sections. Only jurisdictions with stored sections appear.
func (e *Engine) ListJurisdictions(ctx context.Context) ([]law.JurisdictionInfo, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT jurisdiction, COUNT(DISTINCT section_key), MAX(retrieved_at)
		FROM sections
		GROUP BY jurisdiction
		ORDER BY jurisdiction`)
	if err != nil {
		return nil, apperrors.NewStorage("jurisdictions", "", err)
	}
	defer rows.Close()

	var infos []law.JurisdictionInfo
	for rows.Next() {
		var info law.JurisdictionInfo
		var lastUpdated string
		if err := rows.Scan(&info.ID, &info.SectionCount, &lastUpdated); err != nil {
			return nil, apperrors.NewStorage("jurisdictions", "", err)
		}
		info.Name = citation.JurisdictionName(info.ID)
		if meta, ok := citation.Jurisdictions[info.ID]; ok {
			info.Type = meta.Type
		}
		info.LastUpdated = parseTimestamp(lastUpdated)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
