package constants

// Section names emitted by the section extractor. Parsers dispatch on these.
const (
	SectionPersonal   = "personal"
	SectionEarnings   = "earnings"
	SectionDeductions = "deductions"
	SectionTax        = "tax"
	SectionFund       = "fund"
	SectionContact    = "contact"
	SectionUnknown    = "unknown"
)

// Term-tracking contexts reported to the learning system. They intentionally
// reuse the section names for the two table kinds.
const (
	ContextEarnings   = SectionEarnings
	ContextDeductions = SectionDeductions
)
