// Package structure classifies raw document text into a physical layout
// family from keyword evidence.
package structure

import (
	"strings"

	"github.com/devfolarin/payslip-extractor/constants"
)

// familyKeywords is ordered: the first group with any keyword present wins.
var familyKeywords = []struct {
	structure constants.DocumentStructure
	keywords  []string
}{
	{constants.StructureArmy, []string{
		"principal controller of defence accounts",
		"pcda(o)",
		"pcda (o)",
		"army pay",
		"indian army",
		"record office",
	}},
	{constants.StructureNavy, []string{
		"naval pay office",
		"indian navy",
		"inpa",
		"cabs pay",
	}},
	{constants.StructureAirForce, []string{
		"air force central accounts office",
		"afcao",
		"indian air force",
	}},
}

// genericIndicators mark a document as military-related even when no
// branch-specific family matched.
var genericIndicators = []string{
	"defence",
	"military",
	"dsop",
	"agif",
	"pay and allowances",
	"salary statement",
	"payslip",
}

// Identify classifies text into a DocumentStructure. Total and deterministic:
// every input yields exactly one structure and there is no error path.
func Identify(text string) constants.DocumentStructure {
	lower := strings.ToLower(text)

	for _, family := range familyKeywords {
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				return family.structure
			}
		}
	}

	for _, kw := range genericIndicators {
		if strings.Contains(lower, kw) {
			return constants.StructureGeneric
		}
	}

	return constants.StructureUnknown
}
