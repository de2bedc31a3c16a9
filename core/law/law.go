// Package law defines the canonical document model shared by every
// jurisdiction: the Section/Subsection tree, search results, and derived
// title/jurisdiction metadata. Converters produce these types; the storage
// engine persists them.
package law

import (
	"strings"
	"time"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
)

// Subsection is one node of a section's hierarchical text tree. Identifiers
// are unique among siblings; depth is unbounded. A subsection exclusively
// owns its children.
type Subsection struct {
	// Identifier is the display identifier (e.g., "a", "1", "A").
	Identifier string `json:"identifier"`

	// Heading is the subsection heading, if present.
	Heading string `json:"heading,omitempty"`

	// Text is the subsection's own text content.
	Text string `json:"text"`

	// Children are nested subsections, in document order.
	Children []*Subsection `json:"children,omitempty"`
}

// FullText recursively aggregates this node's text: the heading line when a
// heading is present, then the node's own text, then each child's FullText in
// list order. The ordering is contractual; search snippets depend on it.
func (s *Subsection) FullText() string {
	var parts []string
	if s.Heading != "" {
		parts = append(parts, "("+s.Identifier+") "+s.Heading)
	}
	if s.Text != "" {
		parts = append(parts, s.Text)
	}
	for _, child := range s.Children {
		parts = append(parts, child.FullText())
	}
	return strings.Join(parts, "\n")
}

// RefMarker is a structured cross-reference marker attached by a converter,
// carrying the raw reference text and the target as a citation string.
// Structured markers are preferred over free-text recovery because they are
// unambiguous.
type RefMarker struct {
	// Raw is the reference text as it appears in the source.
	Raw string `json:"raw"`

	// Target is the referenced provision as a parseable citation string.
	Target string `json:"target"`
}

// Section is a complete statute or regulation section: the unit of storage
// and interchange. A Section owns its subsection tree exclusively.
type Section struct {
	// Citation addresses this section.
	Citation citation.Citation `json:"citation"`

	// TitleName is the name of the containing title or code
	// (e.g., "Internal Revenue Code").
	TitleName string `json:"title_name"`

	// SectionTitle is the section heading (e.g., "Earned income").
	SectionTitle string `json:"section_title"`

	// Text is the section's own text, excluding subsections.
	Text string `json:"text"`

	// Subsections is the hierarchical subsection tree, in document order.
	Subsections []*Subsection `json:"subsections,omitempty"`

	// EnactedDate is the date the section was enacted (zero if unknown).
	EnactedDate time.Time `json:"enacted_date,omitempty"`

	// EffectiveDate is the date this version came into force. The storage
	// engine versions sections by it; zero means "in force since always".
	EffectiveDate time.Time `json:"effective_date,omitempty"`

	// LastAmended is the date of the most recent amendment (zero if unknown).
	LastAmended time.Time `json:"last_amended,omitempty"`

	// PublicLaws lists public law or chapter numbers that affected this
	// section.
	PublicLaws []string `json:"public_laws,omitempty"`

	// RefMarkers are structured cross-reference markers from the converter.
	RefMarkers []RefMarker `json:"ref_markers,omitempty"`

	// ReferencesTo lists citations this section references. Derived at
	// ingest time from RefMarkers and text; owned by the storage engine,
	// never hand-edited.
	ReferencesTo []citation.Citation `json:"references_to,omitempty"`

	// ReferencedBy lists citations that reference this section. Derived by
	// the storage engine as the reverse index; carried here for interchange
	// only.
	ReferencedBy []citation.Citation `json:"referenced_by,omitempty"`

	// SourceURL is the URL of the official source.
	SourceURL string `json:"source_url"`

	// RetrievedAt is when this version was retrieved.
	RetrievedAt time.Time `json:"retrieved_at"`

	// SourceID is the source-specific identifier (USLM id, LIMS id, etc.).
	SourceID string `json:"source_id,omitempty"`
}

// GetSubsection walks the subsection tree by slash-separated path, matching
// one segment per level by identifier. It returns nil for an empty path or
// as soon as a segment has no match.
func (s *Section) GetSubsection(path string) *Subsection {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, "/")
	children := s.Subsections
	var node *Subsection
	for _, seg := range segments {
		node = nil
		for _, child := range children {
			if child.Identifier == seg {
				node = child
				break
			}
		}
		if node == nil {
			return nil
		}
		children = node.Children
	}
	return node
}

// GetSubsectionText returns the recursive full text of the subsection at the
// given path. The second return is false when the path resolves to nothing.
func (s *Section) GetSubsectionText(path string) (string, bool) {
	sub := s.GetSubsection(path)
	if sub == nil {
		return "", false
	}
	return sub.FullText(), true
}

// FullText aggregates the section's own text and every subsection's FullText
// in document order. This is the body the full-text index ranks.
func (s *Section) FullText() string {
	var parts []string
	if s.Text != "" {
		parts = append(parts, s.Text)
	}
	for _, sub := range s.Subsections {
		parts = append(parts, sub.FullText())
	}
	return strings.Join(parts, "\n")
}

// SearchResult is one ranked full-text search hit.
type SearchResult struct {
	// Citation addresses the matching section.
	Citation citation.Citation `json:"citation"`

	// SectionTitle is the matching section's heading.
	SectionTitle string `json:"section_title"`

	// Snippet is the relevant text excerpt with match markers.
	Snippet string `json:"snippet"`

	// Score is the relevance score; higher ranks first.
	Score float64 `json:"score"`
}
