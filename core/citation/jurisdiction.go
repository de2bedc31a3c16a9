package citation

import "strings"

// JurisdictionType classifies a jurisdiction.
type JurisdictionType string

// Jurisdiction type constants.
const (
	JurisdictionFederal   JurisdictionType = "federal"
	JurisdictionState     JurisdictionType = "state"
	JurisdictionTerritory JurisdictionType = "territory"
)

// JurisdictionMeta describes a known jurisdiction.
type JurisdictionMeta struct {
	Name string
	Type JurisdictionType
}

// Jurisdictions maps jurisdiction IDs to metadata. The table is populated at
// init and is read-only afterwards, so concurrent reads are safe.
var Jurisdictions = map[string]JurisdictionMeta{
	"us": {Name: "United States", Type: JurisdictionFederal},

	"us-al": {Name: "Alabama", Type: JurisdictionState},
	"us-ak": {Name: "Alaska", Type: JurisdictionState},
	"us-az": {Name: "Arizona", Type: JurisdictionState},
	"us-ar": {Name: "Arkansas", Type: JurisdictionState},
	"us-ca": {Name: "California", Type: JurisdictionState},
	"us-co": {Name: "Colorado", Type: JurisdictionState},
	"us-ct": {Name: "Connecticut", Type: JurisdictionState},
	"us-de": {Name: "Delaware", Type: JurisdictionState},
	"us-fl": {Name: "Florida", Type: JurisdictionState},
	"us-ga": {Name: "Georgia", Type: JurisdictionState},
	"us-hi": {Name: "Hawaii", Type: JurisdictionState},
	"us-id": {Name: "Idaho", Type: JurisdictionState},
	"us-il": {Name: "Illinois", Type: JurisdictionState},
	"us-in": {Name: "Indiana", Type: JurisdictionState},
	"us-ia": {Name: "Iowa", Type: JurisdictionState},
	"us-ks": {Name: "Kansas", Type: JurisdictionState},
	"us-ky": {Name: "Kentucky", Type: JurisdictionState},
	"us-la": {Name: "Louisiana", Type: JurisdictionState},
	"us-me": {Name: "Maine", Type: JurisdictionState},
	"us-md": {Name: "Maryland", Type: JurisdictionState},
	"us-ma": {Name: "Massachusetts", Type: JurisdictionState},
	"us-mi": {Name: "Michigan", Type: JurisdictionState},
	"us-mn": {Name: "Minnesota", Type: JurisdictionState},
	"us-ms": {Name: "Mississippi", Type: JurisdictionState},
	"us-mo": {Name: "Missouri", Type: JurisdictionState},
	"us-mt": {Name: "Montana", Type: JurisdictionState},
	"us-ne": {Name: "Nebraska", Type: JurisdictionState},
	"us-nv": {Name: "Nevada", Type: JurisdictionState},
	"us-nh": {Name: "New Hampshire", Type: JurisdictionState},
	"us-nj": {Name: "New Jersey", Type: JurisdictionState},
	"us-nm": {Name: "New Mexico", Type: JurisdictionState},
	"us-ny": {Name: "New York", Type: JurisdictionState},
	"us-nc": {Name: "North Carolina", Type: JurisdictionState},
	"us-nd": {Name: "North Dakota", Type: JurisdictionState},
	"us-oh": {Name: "Ohio", Type: JurisdictionState},
	"us-ok": {Name: "Oklahoma", Type: JurisdictionState},
	"us-or": {Name: "Oregon", Type: JurisdictionState},
	"us-pa": {Name: "Pennsylvania", Type: JurisdictionState},
	"us-ri": {Name: "Rhode Island", Type: JurisdictionState},
	"us-sc": {Name: "South Carolina", Type: JurisdictionState},
	"us-sd": {Name: "South Dakota", Type: JurisdictionState},
	"us-tn": {Name: "Tennessee", Type: JurisdictionState},
	"us-tx": {Name: "Texas", Type: JurisdictionState},
	"us-ut": {Name: "Utah", Type: JurisdictionState},
	"us-vt": {Name: "Vermont", Type: JurisdictionState},
	"us-va": {Name: "Virginia", Type: JurisdictionState},
	"us-wa": {Name: "Washington", Type: JurisdictionState},
	"us-wv": {Name: "West Virginia", Type: JurisdictionState},
	"us-wi": {Name: "Wisconsin", Type: JurisdictionState},
	"us-wy": {Name: "Wyoming", Type: JurisdictionState},

	"us-dc": {Name: "District of Columbia", Type: JurisdictionTerritory},
	"us-pr": {Name: "Puerto Rico", Type: JurisdictionTerritory},
	"us-gu": {Name: "Guam", Type: JurisdictionTerritory},
	"us-vi": {Name: "U.S. Virgin Islands", Type: JurisdictionTerritory},
	"us-as": {Name: "American Samoa", Type: JurisdictionTerritory},
	"us-mp": {Name: "Northern Mariana Islands", Type: JurisdictionTerritory},

	"uk": {Name: "United Kingdom", Type: JurisdictionFederal},
	"ca": {Name: "Canada", Type: JurisdictionFederal},
}

// JurisdictionName returns the human-readable name for a jurisdiction ID,
// falling back to the ID itself when unknown.
func JurisdictionName(id string) string {
	if meta, ok := Jurisdictions[id]; ok {
		return meta.Name
	}
	return id
}

// IsKnownJurisdiction reports whether the ID is in the registry.
func IsKnownJurisdiction(id string) bool {
	_, ok := Jurisdictions[strings.ToLower(id)]
	return ok
}

// stateJurisdiction maps a state token from a citation ("CA", "Cal.", "NY")
// to a jurisdiction ID, or "" when the token is not a state.
func stateJurisdiction(token string) string {
	tok := strings.ToUpper(strings.TrimSuffix(token, "."))
	if tok == "CAL" {
		tok = "CA"
	}
	if len(tok) != 2 {
		return ""
	}
	id := "us-" + strings.ToLower(tok)
	if meta, ok := Jurisdictions[id]; ok && meta.Type != JurisdictionFederal {
		return id
	}
	return ""
}

// UKLegislationTypes maps UK legislation type codes to their full names.
// From the legislation.gov.uk developer documentation.
var UKLegislationTypes = map[string]string{
	"ukpga": "UK Public General Act",
	"uksi":  "UK Statutory Instrument",
	"asp":   "Act of Scottish Parliament",
	"ssi":   "Scottish Statutory Instrument",
	"asc":   "Act of Senedd Cymru",
	"wsi":   "Wales Statutory Instrument",
	"nia":   "Act of Northern Ireland Assembly",
	"nisr":  "Northern Ireland Statutory Rules",
	"ukla":  "UK Local Act",
	"ukppa": "UK Private and Personal Act",
	"ukmo":  "UK Ministerial Order",
	"uksro": "UK Statutory Rules and Orders",
	"eudr":  "EU Directive (Retained)",
	"eur":   "EU Regulation (Retained)",
}

// ukShortTitle maps a well-known act abbreviation and year to its citation
// (type, number). Finance Acts are excluded: their number varies by year.
type ukActKey struct {
	abbrev string
	year   int
}

var ukShortTitles = map[ukActKey]struct {
	legType string
	number  int
}{
	{"ITEPA", 2003}: {"ukpga", 1},  // Income Tax (Earnings and Pensions) Act
	{"ITA", 2007}:   {"ukpga", 3},  // Income Tax Act
	{"TCGA", 1992}:  {"ukpga", 12}, // Taxation of Chargeable Gains Act
	{"TCA", 2002}:   {"ukpga", 21}, // Tax Credits Act
	{"SSCBA", 1992}: {"ukpga", 4},  // Social Security Contributions and Benefits Act
	{"WRA", 2012}:   {"ukpga", 5},  // Welfare Reform Act
	{"CTA", 2009}:   {"ukpga", 4},  // Corporation Tax Act
	{"VATA", 1994}:  {"ukpga", 23}, // Value Added Tax Act
	{"IHTA", 1984}:  {"ukpga", 51}, // Inheritance Tax Act
}
