package export

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
)

func testRecord() *entity.PayslipRecord {
	return &entity.PayslipRecord{
		ID:            uuid.New(),
		Name:          "ANIL KUMAR",
		AccountNumber: "1234567",
		PANNumber:     "ABCDE1234F",
		Month:         "March",
		Year:          2024,
		Credits:       decimal.NewFromInt(85500),
		Debits:        decimal.NewFromInt(13000),
		DSOP:          decimal.NewFromInt(8000),
		Tax:           decimal.NewFromInt(12000),
		NetRemittance: decimal.NewFromInt(72500),
		LineItems: entity.LineItemTable{
			Earnings: map[string]decimal.Decimal{
				"Basic Pay":          decimal.NewFromInt(50000),
				"Dearness Allowance": decimal.NewFromInt(20000),
			},
			Deductions: map[string]decimal.Decimal{
				"DSOP Fund": decimal.NewFromInt(8000),
			},
		},
		Format:     constants.FormatPCDA,
		Structure:  constants.StructureArmy,
		Confidence: entity.ConfidenceHigh,
	}
}

func TestRecordsXLSX(t *testing.T) {
	s := NewService(nil)
	record := testRecord()

	data, err := s.RecordsXLSX([]*entity.PayslipRecord{record})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Payslips")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Record ID", rows[0][0])
	assert.Equal(t, record.ID.String(), rows[1][0])
	assert.Equal(t, "ANIL KUMAR", rows[1][1])
	assert.Equal(t, "85500", rows[1][6])
	assert.Equal(t, "high", rows[1][13])

	items, err := f.GetRows("Line Items")
	require.NoError(t, err)
	// header plus two earnings and one deduction, earnings sorted by label
	require.Len(t, items, 4)
	assert.Equal(t, []string{record.ID.String(), "earning", "Basic Pay", "50000"}, items[1])
	assert.Equal(t, []string{record.ID.String(), "earning", "Dearness Allowance", "20000"}, items[2])
	assert.Equal(t, []string{record.ID.String(), "deduction", "DSOP Fund", "8000"}, items[3])
}

func TestRecordsXLSXEmptyInput(t *testing.T) {
	s := NewService(nil)

	data, err := s.RecordsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Payslips")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
