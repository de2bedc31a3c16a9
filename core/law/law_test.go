package law

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
)

func sampleSection() *Section {
	return &Section{
		Citation:     citation.Citation{Jurisdiction: "us", Code: "26", Section: "32"},
		TitleName:    "Internal Revenue Code",
		SectionTitle: "Earned income",
		Text:         "In the case of an eligible individual...",
		Subsections: []*Subsection{
			{
				Identifier: "a",
				Heading:    "Allowance of credit",
				Text:       "There shall be allowed a credit.",
				Children: []*Subsection{
					{Identifier: "1", Text: "In general."},
					{Identifier: "2", Text: "Limitation."},
				},
			},
			{
				Identifier: "b",
				Text:       "Percentages and amounts.",
				Children: []*Subsection{
					{
						Identifier: "1",
						Text:       "Percentages.",
						Children: []*Subsection{
							{Identifier: "A", Text: "Credit percentage."},
						},
					},
				},
			},
		},
	}
}

func TestGetSubsection(t *testing.T) {
	sec := sampleSection()

	tests := []struct {
		path string
		want string // identifier of the expected node, "" for nil
	}{
		{"a", "a"},
		{"a/1", "1"},
		{"b/1/A", "A"},
		{"b/9", ""},
		{"", ""},
		{"z", ""},
		{"a/1/x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := sec.GetSubsection(tt.path)
			if tt.want == "" {
				if got != nil {
					t.Errorf("GetSubsection(%q) = %v, want nil", tt.path, got.Identifier)
				}
				return
			}
			if got == nil {
				t.Fatalf("GetSubsection(%q) = nil, want %q", tt.path, tt.want)
			}
			if got.Identifier != tt.want {
				t.Errorf("GetSubsection(%q).Identifier = %q, want %q", tt.path, got.Identifier, tt.want)
			}
		})
	}
}

func TestGetSubsectionReturnsExactNode(t *testing.T) {
	sec := sampleSection()
	got := sec.GetSubsection("b/1/A")
	if got != sec.Subsections[1].Children[0].Children[0] {
		t.Error("GetSubsection should return the exact node, not a copy")
	}
}

func TestFullTextOrder(t *testing.T) {
	sub := &Subsection{
		Identifier: "c",
		Heading:    "Limitations",
		Text:       "In general.",
		Children: []*Subsection{
			{Identifier: "1", Text: "First."},
			{Identifier: "2", Text: "Second."},
		},
	}

	got := sub.FullText()
	want := "(c) Limitations\nIn general.\nFirst.\nSecond."
	if got != want {
		t.Errorf("FullText() = %q, want %q", got, want)
	}
}

func TestFullTextOmitsEmptyParts(t *testing.T) {
	sub := &Subsection{
		Identifier: "a",
		Children: []*Subsection{
			{Identifier: "1", Text: "Only child text."},
		},
	}
	if got := sub.FullText(); got != "Only child text." {
		t.Errorf("FullText() = %q", got)
	}
}

func TestGetSubsectionText(t *testing.T) {
	sec := sampleSection()

	text, ok := sec.GetSubsectionText("a")
	if !ok {
		t.Fatal("GetSubsectionText(a) should resolve")
	}
	lines := strings.Split(text, "\n")
	want := []string{"(a) Allowance of credit", "There shall be allowed a credit.", "In general.", "Limitation."}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if _, ok := sec.GetSubsectionText("b/9"); ok {
		t.Error("GetSubsectionText(b/9) should not resolve")
	}
}

func TestSectionFullText(t *testing.T) {
	sec := sampleSection()
	text := sec.FullText()

	if !strings.HasPrefix(text, "In the case of an eligible individual...") {
		t.Error("section text should lead the aggregate")
	}
	aIdx := strings.Index(text, "(a) Allowance of credit")
	bIdx := strings.Index(text, "Percentages and amounts.")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Errorf("subsection order not preserved: a at %d, b at %d", aIdx, bIdx)
	}
}

func TestIsPositiveLawTitle(t *testing.T) {
	if !IsPositiveLawTitle("us", "18") {
		t.Error("title 18 is positive law")
	}
	if IsPositiveLawTitle("us", "26") {
		t.Error("title 26 is not positive law")
	}
	if IsPositiveLawTitle("us-ca", "18") {
		t.Error("state codes carry no positive-law flag")
	}
}
