// Package citation implements the citation algebra: parsing and formatting of
// jurisdiction-specific citation grammars into one canonical structured
// address with a stable storage key.
package citation

import (
	"strconv"
	"strings"

	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
)

// DocType identifies the kind of legal code a citation addresses.
type DocType string

// Document type constants.
const (
	// DocStatute is statutory law (USC, state codes, acts).
	DocStatute DocType = "statute"

	// DocRegulation is regulatory law (CFR and equivalents).
	DocRegulation DocType = "regulation"
)

// Citation is the canonical structured address of a legal provision.
// Citations are immutable value objects: created by parsing or direct
// construction, never mutated. Two citations are equal iff all fields match.
type Citation struct {
	// Jurisdiction is the jurisdiction ID (e.g., "us", "us-ca", "ca", "uk").
	Jurisdiction string `json:"jurisdiction"`

	// DocType is the code type. Empty is treated as DocStatute.
	DocType DocType `json:"doc_type,omitempty"`

	// Code is the title/chapter/act identifier (e.g., "26", "RTC", "I-3.3").
	// For UK citations it is derived from UKType/UKYear/UKNumber.
	Code string `json:"code"`

	// Section is the atomic section token (e.g., "32", "32A", "32-1", "601.602").
	Section string `json:"section"`

	// SubsectionPath holds root-to-leaf subsection identifiers,
	// e.g. ["a","1","A"] for (a)(1)(A).
	SubsectionPath []string `json:"subsection_path,omitempty"`

	// UK variant fields, set only when Jurisdiction is "uk".
	UKType   string `json:"uk_type,omitempty"`
	UKYear   int    `json:"uk_year,omitempty"`
	UKNumber int    `json:"uk_number,omitempty"`
}

// EffectiveDocType returns the document type with the empty value normalized
// to DocStatute. Comparisons across citations must use this, never the raw
// field: a constructed citation leaves DocType empty, a parsed one sets it.
func (c Citation) EffectiveDocType() DocType {
	if c.DocType == "" {
		return DocStatute
	}
	return c.DocType
}

// Equal reports whether two citations match exactly in all fields.
func (c Citation) Equal(other Citation) bool {
	if c.Jurisdiction != other.Jurisdiction ||
		c.EffectiveDocType() != other.EffectiveDocType() ||
		c.Code != other.Code ||
		c.Section != other.Section ||
		c.UKType != other.UKType ||
		c.UKYear != other.UKYear ||
		c.UKNumber != other.UKNumber {
		return false
	}
	if len(c.SubsectionPath) != len(other.SubsectionPath) {
		return false
	}
	for i, seg := range c.SubsectionPath {
		if other.SubsectionPath[i] != seg {
			return false
		}
	}
	return true
}

// String returns the canonical display form for the citation's jurisdiction
// grammar. It is the inverse of Parse for any citation Parse produced.
func (c Citation) String() string {
	var sb strings.Builder

	switch {
	case c.Jurisdiction == "uk":
		sb.WriteString(c.UKType)
		sb.WriteString("/")
		sb.WriteString(strconv.Itoa(c.UKYear))
		sb.WriteString("/")
		sb.WriteString(strconv.Itoa(c.UKNumber))
		if c.Section != "" {
			sb.WriteString("/section/")
			sb.WriteString(c.Section)
			for _, seg := range c.SubsectionPath {
				sb.WriteString("/")
				sb.WriteString(seg)
			}
		}
		return sb.String()

	case c.Jurisdiction == "ca":
		sb.WriteString(c.Code)
		if c.Section != "" {
			sb.WriteString(", s. ")
			sb.WriteString(c.Section)
			writeParenPath(&sb, c.SubsectionPath)
		}
		return sb.String()

	case c.Jurisdiction == "us" && c.EffectiveDocType() == DocRegulation:
		sb.WriteString(c.Code)
		sb.WriteString(" CFR ")
		sb.WriteString(c.Section)

	case c.Jurisdiction == "us":
		sb.WriteString(c.Code)
		sb.WriteString(" USC ")
		sb.WriteString(c.Section)

	default:
		// State-prefixed grammar: "CA RTC 17041".
		state := strings.ToUpper(strings.TrimPrefix(c.Jurisdiction, "us-"))
		sb.WriteString(state)
		sb.WriteString(" ")
		if c.Code != "" {
			sb.WriteString(c.Code)
			sb.WriteString(" ")
		}
		sb.WriteString(c.Section)
	}

	writeParenPath(&sb, c.SubsectionPath)
	return sb.String()
}

func writeParenPath(sb *strings.Builder, path []string) {
	for _, seg := range path {
		sb.WriteString("(")
		sb.WriteString(seg)
		sb.WriteString(")")
	}
}

// StorageKey returns the slash-delimited path used as the lookup and sort key.
// Federal citations omit the jurisdiction segment (statute/26/32/a/1/A);
// every other jurisdiction is prefixed (us-ca/statute/RTC/17041).
func (c Citation) StorageKey() string {
	parts := c.keyParts()
	parts = append(parts, c.SubsectionPath...)
	return strings.Join(parts, "/")
}

// SectionKey returns the storage key truncated to the section level. It is
// the row key of the storage engine: one stored section per SectionKey and
// effective date.
func (c Citation) SectionKey() string {
	return strings.Join(c.keyParts(), "/")
}

func (c Citation) keyParts() []string {
	parts := make([]string, 0, 4+len(c.SubsectionPath))
	if c.Jurisdiction != "us" {
		parts = append(parts, c.Jurisdiction)
	}
	parts = append(parts, string(c.EffectiveDocType()))
	if c.Jurisdiction == "uk" {
		parts = append(parts, c.UKType, strconv.Itoa(c.UKYear), strconv.Itoa(c.UKNumber))
	} else {
		parts = append(parts, c.Code)
	}
	if c.Section != "" {
		parts = append(parts, c.Section)
	}
	return parts
}

// SectionCitation returns a copy of the citation with the subsection path
// stripped, addressing the containing section.
func (c Citation) SectionCitation() Citation {
	c.SubsectionPath = nil
	return c
}

// ParseKey parses a storage key produced by StorageKey back into a Citation.
// The storage engine uses this to rehydrate citations from index rows.
func ParseKey(key string) (Citation, error) {
	parts := strings.Split(key, "/")
	if len(parts) < 2 {
		return Citation{}, apperrors.NewSyntax(key, "storage key too short")
	}

	c := Citation{Jurisdiction: "us"}
	if parts[0] != string(DocStatute) && parts[0] != string(DocRegulation) {
		c.Jurisdiction = parts[0]
		parts = parts[1:]
		if len(parts) < 2 {
			return Citation{}, apperrors.NewSyntax(key, "storage key too short")
		}
	}

	switch parts[0] {
	case string(DocStatute):
		c.DocType = DocStatute
	case string(DocRegulation):
		c.DocType = DocRegulation
	default:
		return Citation{}, apperrors.NewSyntax(key, "unknown document type "+parts[0])
	}
	parts = parts[1:]

	if c.Jurisdiction == "uk" {
		if len(parts) < 3 {
			return Citation{}, apperrors.NewSyntax(key, "uk storage key too short")
		}
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return Citation{}, apperrors.NewSyntax(key, "uk year is not numeric")
		}
		number, err := strconv.Atoi(parts[2])
		if err != nil {
			return Citation{}, apperrors.NewSyntax(key, "uk number is not numeric")
		}
		c.UKType = parts[0]
		c.UKYear = year
		c.UKNumber = number
		c.Code = parts[0] + "/" + parts[1] + "/" + parts[2]
		parts = parts[3:]
	} else {
		c.Code = parts[0]
		parts = parts[1:]
	}

	if len(parts) > 0 {
		c.Section = parts[0]
		parts = parts[1:]
	}
	if len(parts) > 0 {
		c.SubsectionPath = append([]string(nil), parts...)
	}
	return c, nil
}
