package storage

import (
	"context"
	"strings"
	"time"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/core/law"
	"github.com/FocuswithJustin/CedarLaw/internal/logging"
)

const defaultSearchLimit = 20

// ftsQuery turns free-form user input into an FTS5 match expression. Each
// term is quoted so punctuation in the input never reads as query syntax;
// multiple terms conjoin.
func ftsQuery(input string) string {
	terms := strings.Fields(input)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

// Search runs ranked full-text search over the latest version of every
// stored section. A non-empty jurisdiction restricts the scope and must be a
// known jurisdiction ID. Results order by relevance, then by section key so
// equal scores stay deterministic.
func (e *Engine) Search(ctx context.Context, query, jurisdiction string, limit int) ([]law.SearchResult, error) {
	if jurisdiction != "" && !citation.IsKnownJurisdiction(jurisdiction) {
		return nil, apperrors.NewSyntax(jurisdiction, "unknown jurisdiction")
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, apperrors.NewSyntax(query, "empty search query")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	e.rebuildMu.RLock()
	defer e.rebuildMu.RUnlock()

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, `
		SELECT section_key, section_title,
			snippet(sections_fts, 3, '[', ']', '...', 24),
			bm25(sections_fts)
		FROM sections_fts
		WHERE sections_fts MATCH ?
			AND (? = '' OR jurisdiction = ?)
		ORDER BY bm25(sections_fts) ASC, section_key ASC
		LIMIT ?`,
		match, jurisdiction, jurisdiction, limit)
	if err != nil {
		return nil, apperrors.NewStorage("search", query, err)
	}
	defer rows.Close()

	var results []law.SearchResult
	for rows.Next() {
		var key string
		var result law.SearchResult
		var rank float64
		if err := rows.Scan(&key, &result.SectionTitle, &result.Snippet, &rank); err != nil {
			return nil, apperrors.NewStorage("search", query, err)
		}
		c, err := citation.ParseKey(key)
		if err != nil {
			return nil, apperrors.NewStorage("search", key, err)
		}
		result.Citation = c
		// bm25 ranks ascending with more relevant rows more negative.
		result.Score = -rank
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("search", query, err)
	}

	logging.SearchQuery(query, jurisdiction, len(results), time.Since(start))
	return results, nil
}
