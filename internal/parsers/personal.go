// Package parsers holds the three specialized section parsers: personal
// info, financial tables, and contact details. Each is a pure function over
// a DocumentSection; absence of a field is never an error.
package parsers

import (
	"regexp"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/patterns"
)

// Label-anchored line patterns: LABEL, optional colon, value until newline.
var personalPatterns = []struct {
	key constants.FieldKey
	re  *regexp.Regexp
}{
	{constants.FieldName, regexp.MustCompile(`(?im)^\s*name\s*[:\-]?\s*(.+)$`)},
	{constants.FieldRank, regexp.MustCompile(`(?im)^\s*rank\s*[:\-]?\s*(.+)$`)},
	{constants.FieldServiceNumber, regexp.MustCompile(`(?im)^\s*(?:service|army|personnel|regt)\s*no\.?\s*[:\-]?\s*(.+)$`)},
	{constants.FieldAccountNumber, regexp.MustCompile(`(?im)^\s*a/?c(?:count)?\s*no\.?\s*[:\-]?\s*(.+)$`)},
	{constants.FieldPANNumber, regexp.MustCompile(`(?i)pan\s*(?:no\.?|number)?\s*[:\-]?\s*([A-Z]{5}[0-9]{4}[A-Z])`)},
}

// ParsePersonal extracts identity fields from a personal section.
// First match per field wins.
func ParsePersonal(section entity.DocumentSection) map[constants.FieldKey]string {
	out := make(map[constants.FieldKey]string)
	for _, p := range personalPatterns {
		if _, seen := out[p.key]; seen {
			continue
		}
		if m := p.re.FindStringSubmatch(section.Text); len(m) > 1 {
			out[p.key] = patterns.CleanValue(m[1])
		}
	}
	return out
}
