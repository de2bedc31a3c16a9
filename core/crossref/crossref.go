// Package crossref builds citation-to-citation reference edges from canonical
// sections and answers bidirectional lookups over them. The persistent edge
// table lives in the storage engine; the Index here backs rebuilds and tests.
package crossref

import (
	"github.com/FocuswithJustin/CedarLaw/core/citation"
)

// RefType classifies a reference edge relative to its source.
type RefType string

// Reference type constants.
const (
	// RefInternalSubsection targets the same code and section, a different
	// subsection path.
	RefInternalSubsection RefType = "internal_subsection"

	// RefInternalSection targets a different section of the same code.
	RefInternalSection RefType = "internal_section"

	// RefExternalTitle targets a different code or title.
	RefExternalTitle RefType = "external_title"
)

// Reference is one directed edge between two citations.
type Reference struct {
	// Source is the citing provision, at section level.
	Source citation.Citation `json:"source"`

	// Target is the cited provision.
	Target citation.Citation `json:"target"`

	// Raw is the reference text as discovered in the source.
	Raw string `json:"raw,omitempty"`

	// Type classifies the edge.
	Type RefType `json:"type"`
}

// Classify determines the reference type from the source and target citation
// fields alone. Comparison is exact and structural: section "32" never
// matches section "320". Document types compare through EffectiveDocType so
// a constructed citation with an empty DocType matches an explicit statute.
func Classify(source, target citation.Citation) RefType {
	if source.Jurisdiction != target.Jurisdiction ||
		source.EffectiveDocType() != target.EffectiveDocType() ||
		source.Code != target.Code {
		return RefExternalTitle
	}
	if source.Section == target.Section {
		return RefInternalSubsection
	}
	return RefInternalSection
}

// Index provides in-memory bidirectional lookup of references, keyed by the
// section-level storage key.
type Index struct {
	// BySource maps a source section key to its outgoing references.
	BySource map[string][]*Reference

	// ByTarget maps a target section key to its incoming references.
	ByTarget map[string][]*Reference

	// All contains every reference in insertion order.
	All []*Reference
}

// NewIndex creates an empty reference index.
func NewIndex() *Index {
	return &Index{
		BySource: make(map[string][]*Reference),
		ByTarget: make(map[string][]*Reference),
	}
}

// Add inserts a reference into the index.
func (idx *Index) Add(ref *Reference) {
	idx.All = append(idx.All, ref)
	srcKey := ref.Source.SectionKey()
	tgtKey := ref.Target.SectionKey()
	idx.BySource[srcKey] = append(idx.BySource[srcKey], ref)
	idx.ByTarget[tgtKey] = append(idx.ByTarget[tgtKey], ref)
}

// RefsFrom returns the outgoing references of a citation's section.
func (idx *Index) RefsFrom(c citation.Citation) []*Reference {
	return idx.BySource[c.SectionKey()]
}

// RefsTo returns the incoming references of a citation's section.
func (idx *Index) RefsTo(c citation.Citation) []*Reference {
	return idx.ByTarget[c.SectionKey()]
}
