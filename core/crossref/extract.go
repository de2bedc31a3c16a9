package crossref

import (
	"regexp"
	"strings"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/core/law"
)

// ResolutionFailure records one discovered reference that could not be mapped
// to a valid citation. Failures are reported, never fatal: the section is
// ingested with the reference omitted.
type ResolutionFailure struct {
	// Raw is the reference text that failed to resolve.
	Raw string

	// Err is the resolution error.
	Err error
}

// freeTextCite matches citation-shaped substrings in running text. Only the
// unambiguous federal shapes are recovered this way; anything subtler must
// arrive as a structured marker from the converter.
var freeTextCite = regexp.MustCompile(
	`\b[0-9]+\s+(?:U\.?S\.?C\.?|C\.?F\.?R\.?)\s*§?\s*[0-9]+[A-Za-z]*(?:\.[0-9]+)?(?:-[0-9A-Za-z]+)?(?:\([0-9A-Za-z]+\))*`)

// Extract discovers the outgoing references of a section. Structured markers
// are resolved first; free-text recovery over the section body is the
// fallback. Pure self-references and duplicate targets are dropped.
// Unresolvable references come back as failures alongside the successes.
func Extract(sec *law.Section) ([]*Reference, []ResolutionFailure) {
	source := sec.Citation.SectionCitation()

	var refs []*Reference
	var failures []ResolutionFailure
	seen := make(map[string]bool)

	add := func(raw string, target citation.Citation) {
		key := target.StorageKey()
		if seen[key] {
			return
		}
		// A reference to the containing section itself, with no subsection
		// path, carries no edge information.
		if target.SectionKey() == source.SectionKey() && len(target.SubsectionPath) == 0 {
			return
		}
		seen[key] = true
		refs = append(refs, &Reference{
			Source: source,
			Target: target,
			Raw:    raw,
			Type:   Classify(source, target),
		})
	}

	for _, marker := range sec.RefMarkers {
		target, err := citation.Parse(marker.Target)
		if err != nil {
			failures = append(failures, ResolutionFailure{
				Raw: marker.Raw,
				Err: &apperrors.RefResolutionError{
					Raw:     marker.Raw,
					Message: "structured marker did not parse",
					Err:     err,
				},
			})
			continue
		}
		add(marker.Raw, target)
	}

	for _, raw := range scanFreeText(sec) {
		target, err := citation.Parse(raw)
		if err != nil {
			failures = append(failures, ResolutionFailure{
				Raw: raw,
				Err: &apperrors.RefResolutionError{
					Raw:     raw,
					Message: "free-text reference did not parse",
					Err:     err,
				},
			})
			continue
		}
		add(raw, target)
	}

	return refs, failures
}

// scanFreeText collects citation-shaped substrings from the section text and
// every subsection, in document order.
func scanFreeText(sec *law.Section) []string {
	var found []string
	collect := func(text string) {
		for _, m := range freeTextCite.FindAllString(text, -1) {
			found = append(found, strings.TrimSpace(m))
		}
	}
	collect(sec.Text)
	var walk func(subs []*law.Subsection)
	walk = func(subs []*law.Subsection) {
		for _, sub := range subs {
			collect(sub.Heading)
			collect(sub.Text)
			walk(sub.Children)
		}
	}
	walk(sec.Subsections)
	return found
}
