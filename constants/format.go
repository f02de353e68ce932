package constants

import "strings"

// PayslipFormat is the content dialect of a payslip, distinct from its
// physical layout (DocumentStructure). Stable values: these exact strings
// appear in API responses and exports.
type PayslipFormat string

const (
	// FormatAuto is only valid as a user hint and means "let detection decide".
	FormatAuto PayslipFormat = "auto"

	FormatPCDA          PayslipFormat = "pcda"
	FormatPCDABilingual PayslipFormat = "pcda_bilingual"
	FormatMilitary      PayslipFormat = "military"
	FormatPSU           PayslipFormat = "psu"
	FormatCorporate     PayslipFormat = "corporate"
	FormatUnknown       PayslipFormat = "unknown"
)

var allFormats = []PayslipFormat{
	FormatPCDA,
	FormatPCDABilingual,
	FormatMilitary,
	FormatPSU,
	FormatCorporate,
	FormatUnknown,
}

// ParseFormat maps a user-supplied string to a PayslipFormat.
// Unrecognized or empty input maps to FormatAuto so a bad hint can
// never force a bogus format.
func ParseFormat(input string) PayslipFormat {
	normalized := PayslipFormat(strings.ToLower(strings.TrimSpace(input)))
	if normalized == FormatAuto {
		return FormatAuto
	}
	for _, f := range allFormats {
		if normalized == f {
			return f
		}
	}
	return FormatAuto
}

// DocumentStructure is the physical layout family of a document.
type DocumentStructure string

const (
	StructureArmy     DocumentStructure = "army"
	StructureNavy     DocumentStructure = "navy"
	StructureAirForce DocumentStructure = "air_force"
	StructureGeneric  DocumentStructure = "generic"
	StructureUnknown  DocumentStructure = "unknown"
)
