package crossref

import (
	"testing"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
)

func usc(code, section string, subs ...string) citation.Citation {
	return citation.Citation{
		Jurisdiction:   "us",
		Code:           code,
		Section:        section,
		SubsectionPath: subs,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		source citation.Citation
		target citation.Citation
		want   RefType
	}{
		{
			name:   "same section different subsection",
			source: usc("26", "32"),
			target: usc("26", "32", "b", "2"),
			want:   RefInternalSubsection,
		},
		{
			name:   "different section same code",
			source: usc("26", "32"),
			target: usc("26", "152"),
			want:   RefInternalSection,
		},
		{
			name:   "section 32 never matches section 320",
			source: usc("26", "32"),
			target: usc("26", "320"),
			want:   RefInternalSection,
		},
		{
			// A constructed citation leaves DocType empty while a parsed
			// target carries DocStatute; both mean statute.
			name:   "empty doc type matches explicit statute",
			source: usc("26", "32"),
			target: citation.Citation{Jurisdiction: "us", DocType: citation.DocStatute, Code: "26", Section: "152"},
			want:   RefInternalSection,
		},
		{
			name:   "different title",
			source: usc("26", "32"),
			target: usc("42", "1396"),
			want:   RefExternalTitle,
		},
		{
			name:   "different jurisdiction",
			source: usc("26", "32"),
			target: citation.Citation{Jurisdiction: "us-ca", Code: "RTC", Section: "17041"},
			want:   RefExternalTitle,
		},
		{
			name:   "statute citing regulation",
			source: usc("26", "32"),
			target: citation.Citation{Jurisdiction: "us", DocType: citation.DocRegulation, Code: "26", Section: "1.32-1"},
			want:   RefExternalTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.source, tt.target); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexBidirectional(t *testing.T) {
	idx := NewIndex()
	refs := []*Reference{
		{Source: usc("26", "32"), Target: usc("26", "152"), Type: RefInternalSection},
		{Source: usc("26", "32"), Target: usc("42", "1396"), Type: RefExternalTitle},
		{Source: usc("26", "24"), Target: usc("26", "152"), Type: RefInternalSection},
	}
	for _, ref := range refs {
		idx.Add(ref)
	}

	if got := idx.RefsFrom(usc("26", "32")); len(got) != 2 {
		t.Errorf("RefsFrom(26/32) = %d refs, want 2", len(got))
	}
	if got := idx.RefsTo(usc("26", "152")); len(got) != 2 {
		t.Errorf("RefsTo(26/152) = %d refs, want 2", len(got))
	}
	if got := idx.RefsTo(usc("26", "32")); len(got) != 0 {
		t.Errorf("RefsTo(26/32) = %d refs, want 0", len(got))
	}
	if len(idx.All) != 3 {
		t.Errorf("All = %d refs, want 3", len(idx.All))
	}
}

func TestIndexKeysAtSectionLevel(t *testing.T) {
	idx := NewIndex()
	idx.Add(&Reference{
		Source: usc("26", "32"),
		Target: usc("26", "152", "d", "1"),
		Type:   RefInternalSection,
	})

	// Lookups at section level must see edges whose target carries a
	// subsection path.
	if got := idx.RefsTo(usc("26", "152")); len(got) != 1 {
		t.Errorf("RefsTo(26/152) = %d refs, want 1", len(got))
	}
}
