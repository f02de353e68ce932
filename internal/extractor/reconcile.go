package extractor

import (
	"github.com/shopspring/decimal"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
)

// resolveAggregate applies the three-tier fallback for an aggregate figure:
// the explicitly extracted scalar wins; failing that the sum of the itemized
// table; failing that the sum of the known per-component scalar fields.
// Exactly one tier is used.
func resolveAggregate(explicit string, table map[string]decimal.Decimal, scalars map[constants.FieldKey]string, knownFields []constants.FieldKey) decimal.Decimal {
	if amount := parseAmount(explicit); amount.IsPositive() {
		return amount
	}

	if len(table) > 0 {
		return sumTable(table)
	}

	total := decimal.Zero
	for _, key := range knownFields {
		total = total.Add(parseAmount(scalars[key]))
	}
	return total
}

func resolveDSOP(parsed parseResult) decimal.Decimal {
	if amount, ok := parsed.deductions["DSOP Fund"]; ok {
		return amount
	}
	if amount := parseAmount(parsed.scalars[constants.FieldDSOP]); amount.IsPositive() {
		return amount
	}
	if amount, ok := parsed.fundRows["Subscription"]; ok {
		return amount
	}
	return parseAmount(parsed.scalars[constants.FieldDSOPSubscription])
}

func resolveTax(parsed parseResult) decimal.Decimal {
	if amount := parseAmount(parsed.scalars[constants.FieldIncomeTax]); amount.IsPositive() {
		return amount
	}
	if amount := parseAmount(parsed.scalars[constants.FieldITax]); amount.IsPositive() {
		return amount
	}
	if amount, ok := parsed.taxRows["Income Tax"]; ok {
		return amount
	}
	if amount, ok := parsed.deductions["Income Tax"]; ok {
		return amount
	}
	return decimal.Zero
}

// parseAmount converts an extracted scalar to a decimal. A matched string
// that fails numeric coercion is dropped, never propagated.
func parseAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func sumTable(table map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range table {
		total = total.Add(amount)
	}
	return total
}

// rateConfidence grades the completeness of an extraction. High needs both
// aggregates, the full identity-and-period triple, and at least one itemized
// table; medium needs a name and one non-zero aggregate; everything else is
// low.
func rateConfidence(record *entity.PayslipRecord) entity.Confidence {
	hasTables := len(record.LineItems.Earnings) > 0 || len(record.LineItems.Deductions) > 0

	if record.Credits.IsPositive() && record.Debits.IsPositive() &&
		record.Name != "" && record.Month != "" && record.Year != 0 && hasTables {
		return entity.ConfidenceHigh
	}
	if record.Name != "" && (record.Credits.IsPositive() || record.Debits.IsPositive()) {
		return entity.ConfidenceMedium
	}
	return entity.ConfidenceLow
}
