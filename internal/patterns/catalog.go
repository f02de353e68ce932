// Package patterns holds the registry of named regular-expression extractors
// for payslip scalar fields, plus the tabular earnings/deductions row
// heuristics. The catalog is immutable once built; custom patterns are added
// through the Builder before construction, never at runtime.
package patterns

import (
	"regexp"
	"strings"

	"github.com/devfolarin/payslip-extractor/constants"
)

type scalarPattern struct {
	key constants.FieldKey
	re  *regexp.Regexp
}

// Catalog runs every registered pattern against document text and keeps the
// first capturing-group match per field. Absence of a match is a legitimate
// outcome, never an error.
type Catalog struct {
	scalars []scalarPattern
}

// Builder accumulates patterns for an immutable Catalog.
type Builder struct {
	scalars []scalarPattern
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add registers a pattern for a field key. The expression must contain at
// least one capturing group; it is compiled case-insensitively. Registration
// order is match-priority order: the first registered pattern for a key that
// matches wins.
func (b *Builder) Add(key constants.FieldKey, expr string) *Builder {
	re := regexp.MustCompile(`(?i)` + expr)
	b.scalars = append(b.scalars, scalarPattern{key: key, re: re})
	return b
}

func (b *Builder) Build() *Catalog {
	scalars := make([]scalarPattern, len(b.scalars))
	copy(scalars, b.scalars)
	return &Catalog{scalars: scalars}
}

const amount = `(?:Rs\.?|INR|₹)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`

// DefaultCatalog registers the standard defence payslip field patterns.
func DefaultCatalog() *Catalog {
	return NewBuilder().
		Add(constants.FieldName, `(?:^|\n)\s*name\s*[:\-]?\s*([A-Za-z][A-Za-z .]+)`).
		Add(constants.FieldRank, `(?:^|\n)\s*rank\s*[:\-]?\s*([A-Za-z][A-Za-z ()./]+)`).
		Add(constants.FieldServiceNumber, `(?:service|army|personnel|regt)\s*no\.?\s*[:\-]?\s*([A-Z0-9/\-]+)`).
		Add(constants.FieldAccountNumber, `a/?c(?:count)?\s*no\.?\s*[:\-]?\s*([0-9][0-9/\-A-Z]+)`).
		Add(constants.FieldPANNumber, `pan\s*(?:no\.?|number)?\s*[:\-]?\s*([A-Z]{5}[0-9]{4}[A-Z])`).
		Add(constants.FieldGrossPay, `(?:gross\s*pay|total\s*credits?)\s*[:\-]?\s*`+amount).
		Add(constants.FieldTotalDeductions, `total\s*deductions?\s*[:\-]?\s*`+amount).
		Add(constants.FieldNetRemittance, `net\s*(?:remittance|amount\s*payable|payable)\s*[:\-]?\s*`+amount).
		Add(constants.FieldIncomeTax, `income\s*tax(?:\s*deducted)?\s*[:\-]?\s*`+amount).
		Add(constants.FieldEdCess, `ed(?:ucation)?\.?\s*cess\s*[:\-]?\s*`+amount).
		Add(constants.FieldTotalTaxPayable, `total\s*tax\s*payable\s*[:\-]?\s*`+amount).
		Add(constants.FieldDSOPOpeningBalance, `opening\s*balance\s*[:\-]?\s*`+amount).
		Add(constants.FieldDSOPSubscription, `(?:dsop\s*)?subscription\s*[:\-]?\s*`+amount).
		Add(constants.FieldDSOPClosingBalance, `closing\s*balance\s*[:\-]?\s*`+amount).
		Add(constants.FieldBasicPay, `(?:bpay|basic\s*pay)\s*[.:\-]?\s*`+amount).
		Add(constants.FieldDA, `(?:^|\n)\s*da\s*[.:\-]?\s*`+amount).
		Add(constants.FieldMSP, `(?:^|\n)\s*msp\s*[.:\-]?\s*`+amount).
		Add(constants.FieldTPTA, `(?:^|\n)\s*tpta\s*[.:\-]?\s*`+amount).
		Add(constants.FieldDSOP, `(?:^|\n)\s*dsop\s*[.:\-]?\s*`+amount).
		Add(constants.FieldAGIF, `(?:^|\n)\s*agif\s*[.:\-]?\s*`+amount).
		Add(constants.FieldITax, `(?:^|\n)\s*itax\s*[.:\-]?\s*`+amount).
		Build()
}

// ExtractScalars runs every registered pattern against the full text once.
// First match per field wins; unmatched fields are simply absent. Values are
// whitespace-trimmed and thousands-separator-stripped before storage.
func (c *Catalog) ExtractScalars(text string) map[constants.FieldKey]string {
	out := make(map[constants.FieldKey]string)
	for _, p := range c.scalars {
		if _, seen := out[p.key]; seen {
			continue
		}
		if m := p.re.FindStringSubmatch(text); len(m) > 1 {
			out[p.key] = CleanValue(m[1])
		}
	}
	return out
}

// CleanValue trims surrounding whitespace and strips thousands separators.
func CleanValue(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
}
