package constants

// FieldKey identifies a scalar field extracted by the pattern catalog.
// The set is closed; open-ended line items live in the earnings/deductions
// tables instead.
type FieldKey string

const (
	FieldName          FieldKey = "name"
	FieldRank          FieldKey = "rank"
	FieldServiceNumber FieldKey = "serviceNumber"
	FieldAccountNumber FieldKey = "accountNumber"
	FieldPANNumber     FieldKey = "panNumber"

	FieldMonth FieldKey = "month"
	FieldYear  FieldKey = "year"

	FieldGrossPay        FieldKey = "grossPay"
	FieldTotalDeductions FieldKey = "totalDeductions"
	FieldNetRemittance   FieldKey = "netRemittance"

	FieldIncomeTax       FieldKey = "incomeTax"
	FieldEdCess          FieldKey = "edCess"
	FieldTotalTaxPayable FieldKey = "totalTaxPayable"

	FieldDSOPOpeningBalance FieldKey = "dsopOpeningBalance"
	FieldDSOPSubscription   FieldKey = "dsopSubscription"
	FieldDSOPClosingBalance FieldKey = "dsopClosingBalance"

	FieldBasicPay FieldKey = "basicPay"
	FieldDA       FieldKey = "da"
	FieldMSP      FieldKey = "msp"
	FieldTPTA     FieldKey = "tpta"

	FieldDSOP FieldKey = "dsop"
	FieldAGIF FieldKey = "agif"
	FieldITax FieldKey = "itax"
)

// KnownEarningFields and KnownDeductionFields are the tier-3 fallback inputs
// when neither an explicit aggregate nor an itemized table is available.
var (
	KnownEarningFields   = []FieldKey{FieldBasicPay, FieldDA, FieldMSP, FieldTPTA}
	KnownDeductionFields = []FieldKey{FieldDSOP, FieldAGIF, FieldITax}
)
