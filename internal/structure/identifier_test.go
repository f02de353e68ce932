package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devfolarin/payslip-extractor/constants"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.DocumentStructure
	}{
		{
			name: "army header",
			text: "PRINCIPAL CONTROLLER OF DEFENCE ACCOUNTS (OFFICERS)\nStatement of Account",
			want: constants.StructureArmy,
		},
		{
			name: "navy header",
			text: "NAVAL PAY OFFICE, MUMBAI\npay statement",
			want: constants.StructureNavy,
		},
		{
			name: "air force header",
			text: "AIR FORCE CENTRAL ACCOUNTS OFFICE\nNEW DELHI",
			want: constants.StructureAirForce,
		},
		{
			name: "generic military evidence",
			text: "Monthly salary statement with DSOP subscription",
			want: constants.StructureGeneric,
		},
		{
			name: "no evidence",
			text: "grocery list: milk, eggs, bread",
			want: constants.StructureUnknown,
		},
		{
			name: "empty input",
			text: "",
			want: constants.StructureUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identify(tt.text))
		})
	}
}

func TestIdentifyBranchBeatsGeneric(t *testing.T) {
	// branch keywords take precedence even when generic indicators also match
	text := "Indian Army payslip with DSOP and AGIF deductions"
	assert.Equal(t, constants.StructureArmy, Identify(text))
}

func TestIdentifyIsDeterministic(t *testing.T) {
	text := "Indian Navy pay and allowances"
	first := Identify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Identify(text))
	}
}
