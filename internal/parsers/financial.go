package parsers

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/patterns"
	"github.com/devfolarin/payslip-extractor/internal/terminology"
)

// TermTracker receives line-item labels the terminology table did not
// recognize. Implemented by the learning system; a nil tracker disables
// reporting.
type TermTracker interface {
	Track(abbreviation, context string, value float64)
}

// Generic LABEL[.:\s]+NUMBER row pattern applied across section bodies.
var financialRow = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z0-9/&()\-. ]{1,40}?)[.:\s]+(?:Rs\.?\s*)?(-?[0-9][0-9,]*(?:\.[0-9]+)?)\s*$`)

// FinancialParser extracts label→amount rows from earnings, deductions, tax
// and fund sections, normalizing labels through the terminology table.
type FinancialParser struct {
	norm    *terminology.Normalizer
	tracker TermTracker
}

func NewFinancialParser(norm *terminology.Normalizer, tracker TermTracker) *FinancialParser {
	if norm == nil {
		norm = terminology.NewNormalizer(nil)
	}
	return &FinancialParser{norm: norm, tracker: tracker}
}

// ParseEarnings extracts the earnings rows of an earnings section.
// Unrecognized labels are reported to the tracker with the earnings context.
func (p *FinancialParser) ParseEarnings(section entity.DocumentSection) map[string]decimal.Decimal {
	return p.parseRows(section, constants.ContextEarnings, p.tracker)
}

// ParseDeductions extracts the deduction rows of a deductions section.
func (p *FinancialParser) ParseDeductions(section entity.DocumentSection) map[string]decimal.Decimal {
	return p.parseRows(section, constants.ContextDeductions, p.tracker)
}

// ParseTax extracts the rows of an income-tax section. Labels still pass
// through normalization ("ITAX" resolves to "Income Tax") but unknown terms
// are not tracked: tax sections mix narrative text with figures and would
// flood the learning table with noise.
func (p *FinancialParser) ParseTax(section entity.DocumentSection) map[string]decimal.Decimal {
	return p.parseRows(section, "", nil)
}

// ParseFund extracts the rows of a DSOP fund section (opening balance,
// subscription, closing balance and friends).
func (p *FinancialParser) ParseFund(section entity.DocumentSection) map[string]decimal.Decimal {
	return p.parseRows(section, "", nil)
}

// NormalizeTable rewrites raw table labels to canonical names, reporting
// unknown labels to the tracker. Used on tables produced by the catalog-wide
// tabular scan, which works on raw labels.
func (p *FinancialParser) NormalizeTable(rows map[string]decimal.Decimal, context string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rows))
	for rawLabel, amount := range rows {
		label := p.norm.Normalize(rawLabel)
		if _, seen := out[label]; !seen {
			out[label] = amount
		}
		if p.tracker != nil && !p.norm.Known(rawLabel) {
			value, _ := amount.Float64()
			p.tracker.Track(rawLabel, context, value)
		}
	}
	return out
}

func (p *FinancialParser) parseRows(section entity.DocumentSection, context string, tracker TermTracker) map[string]decimal.Decimal {
	rows := make(map[string]decimal.Decimal)
	for _, m := range financialRow.FindAllStringSubmatch(section.Text, -1) {
		rawLabel := patterns.CleanValue(m[1])
		amount, err := decimal.NewFromString(patterns.CleanValue(m[2]))
		if err != nil || !amount.IsPositive() {
			continue
		}

		label := p.norm.Normalize(rawLabel)
		if _, seen := rows[label]; seen {
			continue
		}
		rows[label] = amount

		if tracker != nil && !p.norm.Known(rawLabel) {
			value, _ := amount.Float64()
			tracker.Track(rawLabel, context, value)
		}
	}
	return rows
}
