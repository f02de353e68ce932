// Package terminology maps raw military pay abbreviations to canonical
// pay-component names. The table covers the abbreviations that appear on
// defence payslips across service branches; anything it does not recognize
// passes through unchanged so callers can report it to the learning system.
package terminology

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// canonicalNames maps a normalized lookup key (upper-case, collapsed
// whitespace, stripped trailing punctuation) to the canonical component name.
var canonicalNames = map[string]string{
	// Earnings
	"BPAY":                   "Basic Pay",
	"BASIC PAY":              "Basic Pay",
	"PAY":                    "Basic Pay",
	"DA":                     "Dearness Allowance",
	"DEARNESS ALLOWANCE":     "Dearness Allowance",
	"MSP":                    "Military Service Pay",
	"MILITARY SERVICE PAY":   "Military Service Pay",
	"TPTA":                   "Transport Allowance",
	"TRANSPORT ALLOWANCE":    "Transport Allowance",
	"TPTADA":                 "Transport DA",
	"TRANSPORT DA":           "Transport DA",
	"HRA":                    "House Rent Allowance",
	"HOUSE RENT ALLOWANCE":   "House Rent Allowance",
	"CEA":                    "Children Education Allowance",
	"HAUTC":                  "High Altitude Allowance",
	"HIGH ALTITUDE ALLOWANCE": "High Altitude Allowance",
	"SICHA":                  "Siachen Allowance",
	"SIACHEN ALLOWANCE":      "Siachen Allowance",
	"FLYA":                   "Flying Allowance",
	"FLYING ALLOWANCE":       "Flying Allowance",
	"SUBA":                   "Submarine Allowance",
	"ARR":                    "Arrears",
	"ARREARS":                "Arrears",

	// Deductions
	"DSOP":               "DSOP Fund",
	"DSOP FUND":          "DSOP Fund",
	"DSOPF":              "DSOP Fund",
	"AGIF":               "AGIF",
	"AFGIS":              "AFGIS",
	"NGIF":               "NGIF",
	"ITAX":               "Income Tax",
	"INCOME TAX":         "Income Tax",
	"IT":                 "Income Tax",
	"EHCESS":             "Education Cess",
	"ED CESS":            "Education Cess",
	"EDUCATION CESS":     "Education Cess",
	"CGHS":               "CGHS",
	"CGEIS":              "CGEIS",
	"AFMSD":              "AFMSD",
	"LF":                 "License Fee",
	"LICENSE FEE":        "License Fee",
	"FUR":                "Furniture Charges",
	"FURNITURE":          "Furniture Charges",
	"WATER":              "Water Charges",
	"ELEC":               "Electricity Charges",
	"ELECTRICITY":        "Electricity Charges",
	"BARRACK":            "Barrack Damages",
	"MESS":               "Mess Bill",
	"MESS BILL":          "Mess Bill",
	"CANTEEN":            "Canteen Dues",
	"LOAN":               "Loan Repayment",
	"LOANS":              "Loan Repayment",
	"ADV":                "Advance Recovery",
	"ADVANCE":            "Advance Recovery",
	"SPCDO":              "SPCDO",
	"RSHNA":              "Rashan Recovery",

	// Fund and tax statement rows
	"OPENING BALANCE": "Opening Balance",
	"SUBSCRIPTION":    "Subscription",
	"MISC ADJ":        "Misc Adjustment",
	"INTEREST":        "Interest",
	"CLOSING BALANCE": "Closing Balance",
	"GROSS SALARY":    "Gross Salary",
	"STANDARD DEDUCTION": "Standard Deduction",
	"NET TAXABLE INCOME": "Net Taxable Income",
}

// Normalizer resolves raw line-item labels to canonical pay-component names.
// The zero value is not usable; construct with NewNormalizer.
type Normalizer struct {
	table map[string]string
}

// NewNormalizer returns a Normalizer over the built-in terminology table,
// with optional extra mappings layered on top (extras win on collision).
func NewNormalizer(extras map[string]string) *Normalizer {
	table := make(map[string]string, len(canonicalNames)+len(extras)*2)
	for k, v := range canonicalNames {
		table[k] = v
		// canonical names normalize to themselves so Normalize is idempotent
		table[lookupKey(v)] = v
	}
	for k, v := range extras {
		table[lookupKey(k)] = v
		table[lookupKey(v)] = v
	}
	return &Normalizer{table: table}
}

// Normalize maps a raw label to its canonical pay-component name. Labels with
// no known mapping come back unchanged apart from whitespace cleanup.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := cleanLabel(raw)
	if canonical, ok := n.table[lookupKey(cleaned)]; ok {
		return canonical
	}
	return cleaned
}

// Known reports whether the label resolves to a catalog term.
func (n *Normalizer) Known(raw string) bool {
	_, ok := n.table[lookupKey(raw)]
	return ok
}

// KnownTerms returns every lookup key in the table, for seeding the learning
// system's known-term filter.
func (n *Normalizer) KnownTerms() []string {
	terms := make([]string, 0, len(n.table))
	for k := range n.table {
		terms = append(terms, k)
	}
	return terms
}

func cleanLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, ".:-")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func lookupKey(raw string) string {
	return strings.ToUpper(cleanLabel(raw))
}
