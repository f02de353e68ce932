package patterns

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Header markers for the two table kinds, including the bilingual variants
// printed on PCDA statements.
var (
	earningsMarker   = regexp.MustCompile(`(?i)(?:earnings|credit\s*side|credits|आय)`)
	deductionsMarker = regexp.MustCompile(`(?i)(?:deductions|debit\s*side|debits|कटौती)`)

	// LABEL NUMBER rows: an upper-case-ish label followed by an amount at end
	// of line. Amounts keep their separators here; parseAmount strips them.
	tableRow = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z0-9/&.\- ]{1,40}?)\s+(?:Rs\.?\s*)?([0-9][0-9,]*(?:\.[0-9]+)?)\s*$`)
)

// ExtractTable locates the earnings and deductions table regions and applies
// the row pattern to each. Each region runs from the first occurrence of its
// header marker to the start of the other marker (when it occurs later) or
// end of text. Malformed numeric tokens are skipped silently.
func ExtractTable(text string) (earnings, deductions map[string]decimal.Decimal) {
	earnIdx := markerIndex(earningsMarker, text)
	dedIdx := markerIndex(deductionsMarker, text)

	earnings = rowsIn(region(text, earnIdx, dedIdx))
	deductions = rowsIn(region(text, dedIdx, earnIdx))
	return earnings, deductions
}

func markerIndex(marker *regexp.Regexp, text string) int {
	loc := marker.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// region slices from a marker hit to the next other marker, or end of text.
func region(text string, from, other int) string {
	if from < 0 {
		return ""
	}
	end := len(text)
	if other > from {
		end = other
	}
	return text[from:end]
}

func rowsIn(region string) map[string]decimal.Decimal {
	rows := make(map[string]decimal.Decimal)
	for _, m := range tableRow.FindAllStringSubmatch(region, -1) {
		label := CleanValue(m[1])
		amount, err := decimal.NewFromString(CleanValue(m[2]))
		if err != nil || !amount.IsPositive() {
			continue
		}
		if _, seen := rows[label]; seen {
			continue
		}
		rows[label] = amount
	}
	return rows
}
