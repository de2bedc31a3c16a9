package law

import (
	"time"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
)

// TitleInfo is aggregated metadata about one title/code within a
// jurisdiction. It is recomputed from stored sections, never maintained as
// independent truth.
type TitleInfo struct {
	// Code is the title or code identifier (e.g., "26", "RTC").
	Code string `json:"code"`

	// Name is the title name, taken from the stored sections.
	Name string `json:"name"`

	// Jurisdiction is the owning jurisdiction ID.
	Jurisdiction string `json:"jurisdiction"`

	// SectionCount is the number of distinct sections stored.
	SectionCount int `json:"section_count"`

	// LastUpdated is the most recent retrieval date among the sections.
	LastUpdated time.Time `json:"last_updated"`

	// IsPositiveLaw reports whether the title has been enacted into
	// positive law (US Code titles only; false elsewhere).
	IsPositiveLaw bool `json:"is_positive_law"`
}

// JurisdictionInfo is aggregated metadata about one jurisdiction's holdings.
type JurisdictionInfo struct {
	// ID is the jurisdiction ID (e.g., "us", "us-ca").
	ID string `json:"id"`

	// Name is the human-readable jurisdiction name.
	Name string `json:"name"`

	// Type classifies the jurisdiction (federal, state, territory).
	Type citation.JurisdictionType `json:"type"`

	// SectionCount is the number of distinct sections stored.
	SectionCount int `json:"section_count"`

	// LastUpdated is the most recent retrieval date among the sections.
	LastUpdated time.Time `json:"last_updated"`
}

// positiveLawTitles is the set of US Code titles enacted into positive law,
// per the Office of the Law Revision Counsel.
var positiveLawTitles = map[string]bool{
	"1": true, "3": true, "4": true, "5": true, "9": true, "10": true,
	"11": true, "13": true, "14": true, "17": true, "18": true, "23": true,
	"28": true, "31": true, "32": true, "34": true, "35": true, "36": true,
	"37": true, "38": true, "39": true, "40": true, "41": true, "44": true,
	"46": true, "49": true, "51": true, "54": true,
}

// IsPositiveLawTitle reports whether a US Code title number has been enacted
// into positive law. Non-federal jurisdictions always return false.
func IsPositiveLawTitle(jurisdiction, code string) bool {
	return jurisdiction == "us" && positiveLawTitles[code]
}
