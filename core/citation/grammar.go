package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
)

// citeLexer tokenizes federal and state citation strings. Section tokens are
// atomic: hyphenated (32-1), letter-suffixed (32A), and dotted (601.602)
// section numbers are single tokens, never subsection levels.
var citeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Section", Pattern: `[0-9]+[A-Za-z]*(?:\.[0-9]+[A-Za-z]?)?(?:-[0-9A-Za-z]+)?`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z.]*`},
	{Name: "Sym", Pattern: `[()§]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// federalCite is the participle grammar for USC and CFR citations.
// Examples: "26 USC 32(a)(1)(A)", "26 U.S.C. § 32", "26 CFR 601.602(a)"
//
type federalCite struct {
	Title string   `parser:"@Section"`
	Label string   `parser:"@Ident"`
	Sect  string   `parser:"'§'? @Section"`
	Subs  []string `parser:"( '(' @( Ident | Section ) ')' )*"`
}

// stateCite is the participle grammar for state-prefixed citations.
// Examples: "CA RTC 17041(a)", "NY TAX 601", "Cal. RTC § 17041", "OH 5747.02"
//
type stateCite struct {
	State string   `parser:"@Ident"`
	Code  string   `parser:"@Ident?"`
	Sect  string   `parser:"'§'? @Section"`
	Subs  []string `parser:"( '(' @( Ident | Section ) ')' )*"`
}

var (
	federalParser = participle.MustBuild[federalCite](
		participle.Lexer(citeLexer),
		participle.Elide("Whitespace"),
	)
	stateParser = participle.MustBuild[stateCite](
		participle.Lexer(citeLexer),
		participle.Elide("Whitespace"),
	)
)

// Canada consolidated citations: "I-3.3, s. 32(1)(a)" or bare "I-3.3".
var canadaPattern = regexp.MustCompile(
	`^([A-Z]{1,3}-[0-9]+(?:\.[0-9]+)?)(?:,\s*s\.?\s*([0-9]+[A-Za-z]?(?:\.[0-9]+)?)((?:\([0-9A-Za-z]+\))*))?$`)

// UK path citations: "ukpga/2003/1", "ukpga/2003/1/section/62/1/a".
var ukPattern = regexp.MustCompile(
	`^([a-z]{2,5})/([0-9]{4})/([0-9]+)(?:/section/([0-9]+[A-Za-z]?)((?:/[0-9A-Za-z]+)*))?$`)

// UK short-title citations: "ITEPA 2003 s.62(1)".
var ukShortPattern = regexp.MustCompile(
	`^([A-Z]{2,6})\s+([0-9]{4})\s+s\.?\s*([0-9]+[A-Za-z]?)((?:\([0-9A-Za-z]+\))*)$`)

// parenSegments extracts subsection identifiers from a "(a)(1)(A)" chain.
var parenSegment = regexp.MustCompile(`\(([0-9A-Za-z]+)\)`)

func parenPath(chain string) []string {
	matches := parenSegment.FindAllStringSubmatch(chain, -1)
	if len(matches) == 0 {
		return nil
	}
	path := make([]string, len(matches))
	for i, m := range matches {
		path[i] = m[1]
	}
	return path
}

// grammarFn attempts one jurisdiction grammar. A nil error means the grammar
// matched and produced a citation; any error means "try the next grammar".
type grammarFn func(raw string) (Citation, error)

// grammarOrder lists grammars in matching order. The state grammar goes last:
// it is the most permissive of the set.
var grammarOrder = []struct {
	name  string
	parse grammarFn
}{
	{"uk", parseUK},
	{"uk-short", parseUKShort},
	{"canada", parseCanada},
	{"federal", parseFederal},
	{"state", parseState},
}

// grammarsByHint maps a jurisdiction hint to the grammars worth trying.
func grammarsByHint(hint string) []string {
	switch {
	case hint == "us":
		return []string{"federal"}
	case hint == "uk":
		return []string{"uk", "uk-short"}
	case hint == "ca":
		return []string{"canada"}
	case strings.HasPrefix(hint, "us-"):
		return []string{"state"}
	default:
		return nil
	}
}

// Parse parses a raw citation string, trying each supported jurisdiction
// grammar in order. It returns a CitationSyntaxError when no grammar matches;
// malformed input fails, it is never silently truncated.
func Parse(raw string) (Citation, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Citation{}, apperrors.NewSyntax(raw, "empty citation string")
	}
	for _, g := range grammarOrder {
		if c, err := g.parse(trimmed); err == nil {
			return c, nil
		}
	}
	return Citation{}, apperrors.NewSyntax(raw, "no grammar matched")
}

// ParseWithHint parses a raw citation string restricted to the grammars of
// the hinted jurisdiction. An empty hint is equivalent to Parse. A known hint
// whose grammars all fail is an error; the algebra never falls back to
// guessing across jurisdictions.
func ParseWithHint(raw, hint string) (Citation, error) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return Parse(raw)
	}
	names := grammarsByHint(hint)
	if names == nil {
		return Citation{}, apperrors.NewSyntax(raw, "unknown jurisdiction hint "+hint)
	}

	trimmed := strings.TrimSpace(raw)
	for _, g := range grammarOrder {
		for _, name := range names {
			if g.name != name {
				continue
			}
			if c, err := g.parse(trimmed); err == nil {
				// State grammar hints must agree with the parsed state.
				if strings.HasPrefix(hint, "us-") && c.Jurisdiction != hint {
					continue
				}
				return c, nil
			}
		}
	}
	return Citation{}, &apperrors.CitationSyntaxError{
		Input:   raw,
		Grammar: hint,
		Message: "no grammar matched",
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseFederal(raw string) (Citation, error) {
	parsed, err := federalParser.ParseString("", raw)
	if err != nil {
		return Citation{}, err
	}
	if !isDigits(parsed.Title) {
		return Citation{}, apperrors.NewSyntax(raw, "federal title must be numeric")
	}

	var docType DocType
	switch strings.ToUpper(strings.TrimSuffix(parsed.Label, ".")) {
	case "USC", "U.S.C":
		docType = DocStatute
	case "CFR", "C.F.R":
		docType = DocRegulation
	default:
		return Citation{}, apperrors.NewSyntax(raw, "unknown code label "+parsed.Label)
	}

	return Citation{
		Jurisdiction:   "us",
		DocType:        docType,
		Code:           parsed.Title,
		Section:        parsed.Sect,
		SubsectionPath: copyPath(parsed.Subs),
	}, nil
}

func parseState(raw string) (Citation, error) {
	parsed, err := stateParser.ParseString("", raw)
	if err != nil {
		return Citation{}, err
	}
	jurisdiction := stateJurisdiction(parsed.State)
	if jurisdiction == "" {
		return Citation{}, apperrors.NewSyntax(raw, "unknown state "+parsed.State)
	}

	return Citation{
		Jurisdiction:   jurisdiction,
		DocType:        DocStatute,
		Code:           strings.ToUpper(parsed.Code),
		Section:        parsed.Sect,
		SubsectionPath: copyPath(parsed.Subs),
	}, nil
}

func parseCanada(raw string) (Citation, error) {
	m := canadaPattern.FindStringSubmatch(raw)
	if m == nil {
		return Citation{}, apperrors.NewSyntax(raw, "not a consolidated citation")
	}
	return Citation{
		Jurisdiction:   "ca",
		DocType:        DocStatute,
		Code:           m[1],
		Section:        m[2],
		SubsectionPath: parenPath(m[3]),
	}, nil
}

func parseUK(raw string) (Citation, error) {
	m := ukPattern.FindStringSubmatch(raw)
	if m == nil {
		return Citation{}, apperrors.NewSyntax(raw, "not a uk legislation path")
	}
	legType := m[1]
	if _, ok := UKLegislationTypes[legType]; !ok {
		return Citation{}, apperrors.NewSyntax(raw, "unknown uk legislation type "+legType)
	}
	year, _ := strconv.Atoi(m[2])
	number, _ := strconv.Atoi(m[3])

	c := Citation{
		Jurisdiction: "uk",
		DocType:      DocStatute,
		Code:         legType + "/" + m[2] + "/" + m[3],
		Section:      m[4],
		UKType:       legType,
		UKYear:       year,
		UKNumber:     number,
	}
	if m[5] != "" {
		c.SubsectionPath = strings.Split(strings.TrimPrefix(m[5], "/"), "/")
	}
	return c, nil
}

func parseUKShort(raw string) (Citation, error) {
	m := ukShortPattern.FindStringSubmatch(raw)
	if m == nil {
		return Citation{}, apperrors.NewSyntax(raw, "not a uk short-title citation")
	}
	year, _ := strconv.Atoi(m[2])
	act, ok := ukShortTitles[ukActKey{abbrev: strings.ToUpper(m[1]), year: year}]
	if !ok {
		return Citation{}, apperrors.NewSyntax(raw, "unknown uk act abbreviation "+m[1])
	}
	number := strconv.Itoa(act.number)

	return Citation{
		Jurisdiction:   "uk",
		DocType:        DocStatute,
		Code:           act.legType + "/" + m[2] + "/" + number,
		Section:        m[3],
		SubsectionPath: parenPath(m[4]),
		UKType:         act.legType,
		UKYear:         year,
		UKNumber:       act.number,
	}, nil
}

func copyPath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	return append([]string(nil), path...)
}
