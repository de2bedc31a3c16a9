package crossref

import (
	"testing"

	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/core/law"
)

func TestExtractStructuredMarkers(t *testing.T) {
	sec := &law.Section{
		Citation: usc("26", "32"),
		Text:     "For purposes of this section, see the definitions below.",
		RefMarkers: []law.RefMarker{
			{Raw: "section 152(d)", Target: "26 USC 152(d)"},
			{Raw: "subsection (b)(2)", Target: "26 USC 32(b)(2)"},
		},
	}

	refs, failures := Extract(sec)
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(refs) != 2 {
		t.Fatalf("refs = %d, want 2", len(refs))
	}

	if refs[0].Type != RefInternalSection {
		t.Errorf("refs[0].Type = %q, want %q", refs[0].Type, RefInternalSection)
	}
	if key := refs[0].Target.StorageKey(); key != "statute/26/152/d" {
		t.Errorf("refs[0] target key = %q", key)
	}
	if refs[1].Type != RefInternalSubsection {
		t.Errorf("refs[1].Type = %q, want %q", refs[1].Type, RefInternalSubsection)
	}
	for _, ref := range refs {
		if got := ref.Source.SectionKey(); got != "statute/26/32" {
			t.Errorf("source key = %q, want statute/26/32", got)
		}
	}
}

func TestExtractFreeText(t *testing.T) {
	sec := &law.Section{
		Citation: usc("26", "32"),
		Text:     "As defined in 26 USC 152(d)(2), and subject to 42 U.S.C. § 1396.",
		Subsections: []*law.Subsection{
			{Identifier: "a", Text: "See 26 CFR 1.32-1 for regulations."},
		},
	}

	refs, failures := Extract(sec)
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(refs) != 3 {
		t.Fatalf("refs = %d, want 3: %v", len(refs), refs)
	}

	wantKeys := map[string]RefType{
		"statute/26/152/d/2":   RefInternalSection,
		"statute/42/1396":      RefExternalTitle,
		"regulation/26/1.32-1": RefExternalTitle,
	}
	for _, ref := range refs {
		key := ref.Target.StorageKey()
		wantType, ok := wantKeys[key]
		if !ok {
			t.Errorf("unexpected target %q", key)
			continue
		}
		if ref.Type != wantType {
			t.Errorf("target %q classified %q, want %q", key, ref.Type, wantType)
		}
	}
}

func TestExtractDropsSelfAndDuplicates(t *testing.T) {
	sec := &law.Section{
		Citation: usc("26", "32"),
		Text:     "See 26 USC 152. As noted in 26 USC 152, and again 26 USC 32.",
	}

	refs, failures := Extract(sec)
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(refs) != 1 {
		t.Fatalf("refs = %d, want 1 (dedup and self drop): %v", len(refs), refs)
	}
	if key := refs[0].Target.StorageKey(); key != "statute/26/152" {
		t.Errorf("target key = %q", key)
	}
}

func TestExtractKeepsSelfSubsectionRefs(t *testing.T) {
	sec := &law.Section{
		Citation: usc("26", "32"),
		Text:     "Subject to 26 USC 32(b).",
	}

	refs, _ := Extract(sec)
	if len(refs) != 1 {
		t.Fatalf("refs = %d, want 1", len(refs))
	}
	if refs[0].Type != RefInternalSubsection {
		t.Errorf("Type = %q, want %q", refs[0].Type, RefInternalSubsection)
	}
}

func TestExtractReportsUnresolvableMarkers(t *testing.T) {
	sec := &law.Section{
		Citation: usc("26", "32"),
		Text:     "Good text with 26 USC 152 inside.",
		RefMarkers: []law.RefMarker{
			{Raw: "the Act of 1883", Target: "not a citation"},
		},
	}

	refs, failures := Extract(sec)
	if len(refs) != 1 {
		t.Fatalf("refs = %d, want 1", len(refs))
	}
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	if failures[0].Raw != "the Act of 1883" {
		t.Errorf("failure raw = %q", failures[0].Raw)
	}
	if !apperrors.Is(failures[0].Err, apperrors.ErrResolution) {
		t.Error("failure error should match ErrResolution")
	}
	var resErr *apperrors.RefResolutionError
	if !apperrors.As(failures[0].Err, &resErr) {
		t.Fatalf("failure error is %T, want RefResolutionError", failures[0].Err)
	}
	if resErr.Raw != "the Act of 1883" {
		t.Errorf("resolution error raw = %q", resErr.Raw)
	}
	if !apperrors.Is(resErr.Err, apperrors.ErrSyntax) {
		t.Error("resolution error should carry the underlying parse error")
	}
}

func TestExtractEmptySection(t *testing.T) {
	sec := &law.Section{Citation: usc("26", "7805"), Text: "The Secretary shall prescribe rules."}
	refs, failures := Extract(sec)
	if len(refs) != 0 || len(failures) != 0 {
		t.Errorf("refs = %v, failures = %v, want none", refs, failures)
	}
}
