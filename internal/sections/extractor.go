// Package sections splits page text into named logical regions using
// boundary markers chosen per layout family.
package sections

import (
	"regexp"
	"strings"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
)

type marker struct {
	name string
	re   *regexp.Regexp
}

// Generic boundary markers. Family-specific sets refine individual entries
// but share most of these.
var genericMarkers = []marker{
	{constants.SectionPersonal, regexp.MustCompile(`(?i)(?:personal\s+details|\bname\s*[:\-])`)},
	{constants.SectionEarnings, regexp.MustCompile(`(?i)(?:earnings|credit\s*side|\bcredits\b|आय)`)},
	{constants.SectionDeductions, regexp.MustCompile(`(?i)(?:deductions|debit\s*side|\bdebits\b|कटौती)`)},
	{constants.SectionTax, regexp.MustCompile(`(?i)(?:income\s*tax\s*details|\bitax\b|tax\s*summary)`)},
	{constants.SectionFund, regexp.MustCompile(`(?i)(?:dsop\s*fund|fund\s*details|provident\s*fund)`)},
	{constants.SectionContact, regexp.MustCompile(`(?i)(?:contact\s*(?:details|us)?|for\s+queries|helpdesk|grievance)`)},
}

var armyMarkers = withOverrides(genericMarkers, []marker{
	{constants.SectionPersonal, regexp.MustCompile(`(?i)(?:statement\s+of\s+account|personal\s+details|\bname\s*[:\-])`)},
	{constants.SectionFund, regexp.MustCompile(`(?i)(?:dsop\s*fund|fund\s*account)`)},
})

var navyMarkers = withOverrides(genericMarkers, []marker{
	{constants.SectionEarnings, regexp.MustCompile(`(?i)(?:pay\s+and\s+allowances|earnings|\bcredits\b)`)},
})

var airForceMarkers = withOverrides(genericMarkers, []marker{
	{constants.SectionTax, regexp.MustCompile(`(?i)(?:income\s*tax\s*details|it\s*computation|\bitax\b)`)},
})

// Contact-like evidence used by the post-pass when no contact section was
// located by markers.
var contactEvidence = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3,5}[- ]?\d{5,8}\b`),
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`(?i)\b(?:www\.)?[a-z0-9\-]+\.(?:gov|nic|org|com)(?:\.in)?\b`),
}

func withOverrides(base []marker, overrides []marker) []marker {
	out := make([]marker, len(base))
	copy(out, base)
	for _, o := range overrides {
		for i := range out {
			if out[i].name == o.name {
				out[i] = o
			}
		}
	}
	return out
}

func markersFor(s constants.DocumentStructure) []marker {
	switch s {
	case constants.StructureArmy:
		return armyMarkers
	case constants.StructureNavy:
		return navyMarkers
	case constants.StructureAirForce:
		return airForceMarkers
	default:
		return genericMarkers
	}
}

// Extract carves each page into named sections. For every marker that occurs
// on a page, the section runs from its first occurrence to the start of
// whichever other marker occurs next, or end of page. Pages with no marker
// hits yield a single "unknown" section holding the full page text, so
// downstream parsers always have something to examine.
//
// A post-pass synthesizes a "contact" section over the full text when no
// contact section was found but contact-like evidence exists anywhere.
// Contact data is low-risk to over-extract, so recall wins over precision.
func Extract(pages []string, structure constants.DocumentStructure) []entity.DocumentSection {
	markers := markersFor(structure)

	var out []entity.DocumentSection
	for pageIdx, page := range pages {
		out = append(out, extractPage(page, pageIdx, markers)...)
	}

	if !hasSection(out, constants.SectionContact) {
		full := strings.Join(pages, "\n")
		for _, re := range contactEvidence {
			if re.MatchString(full) {
				out = append(out, entity.DocumentSection{
					Name:      constants.SectionContact,
					Text:      full,
					PageIndex: -1,
				})
				break
			}
		}
	}

	return out
}

func extractPage(page string, pageIdx int, markers []marker) []entity.DocumentSection {
	type hit struct {
		name  string
		start int
	}

	var hits []hit
	for _, m := range markers {
		if loc := m.re.FindStringIndex(page); loc != nil {
			hits = append(hits, hit{name: m.name, start: loc[0]})
		}
	}

	if len(hits) == 0 {
		return []entity.DocumentSection{{
			Name:      constants.SectionUnknown,
			Text:      page,
			PageIndex: pageIdx,
		}}
	}

	sections := make([]entity.DocumentSection, 0, len(hits))
	for _, h := range hits {
		end := len(page)
		for _, other := range hits {
			if other.start > h.start && other.start < end {
				end = other.start
			}
		}
		sections = append(sections, entity.DocumentSection{
			Name:      h.name,
			Text:      page[h.start:end],
			PageIndex: pageIdx,
		})
	}
	return sections
}

func hasSection(sections []entity.DocumentSection, name string) bool {
	for _, s := range sections {
		if s.Name == name {
			return true
		}
	}
	return false
}
