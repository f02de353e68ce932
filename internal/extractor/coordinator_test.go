package extractor

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/common"
	"github.com/devfolarin/payslip-extractor/internal/format"
)

type stubPageExtractor struct {
	pages []string
	err   error
}

func (s *stubPageExtractor) ExtractPages(_ []byte) ([]string, error) {
	return s.pages, s.err
}

func newTestCoordinator(pages PageTextExtractor) *Coordinator {
	detector := format.NewDetector(nil, 0.7, nil)
	return NewCoordinator(pages, detector, nil, nil, nil, nil)
}

const armyStatement = `PRINCIPAL CONTROLLER OF DEFENCE ACCOUNTS (OFFICERS)
STATEMENT OF ACCOUNT FOR 03/2024
Name: ANIL KUMAR
Rank: MAJOR
A/C No: 1234567
PAN No: ABCDE1234F
EARNINGS
BPAY 50000
DA 20000
MSP 15500
DEDUCTIONS
DSOP 8000
AGIF 5000
ITAX 12000
DSOP FUND
OPENING BALANCE 250000
SUBSCRIPTION 8000
CLOSING BALANCE 258000
`

func TestExtractFullStatement(t *testing.T) {
	c := newTestCoordinator(nil)

	record := c.ExtractFromPages(context.Background(), []string{armyStatement}, constants.FormatAuto)
	require.NotNil(t, record)

	assert.Equal(t, "ANIL KUMAR", record.Name)
	assert.Equal(t, "1234567", record.AccountNumber)
	assert.Equal(t, "ABCDE1234F", record.PANNumber)
	assert.Equal(t, "March", record.Month)
	assert.Equal(t, 2024, record.Year)

	assert.Equal(t, constants.FormatPCDA, record.Format)
	assert.Equal(t, constants.StructureArmy, record.Structure)
	assert.Equal(t, 1, record.Pages)

	assert.True(t, record.LineItems.Earnings["Basic Pay"].Equal(decimal.NewFromInt(50000)))
	assert.True(t, record.LineItems.Earnings["Dearness Allowance"].Equal(decimal.NewFromInt(20000)))
	assert.True(t, record.LineItems.Earnings["Military Service Pay"].Equal(decimal.NewFromInt(15500)))
	assert.True(t, record.LineItems.Deductions["DSOP Fund"].Equal(decimal.NewFromInt(8000)))
	assert.True(t, record.LineItems.Deductions["AGIF"].Equal(decimal.NewFromInt(5000)))

	// no explicit totals printed, so aggregates come from the tables
	assert.True(t, record.Credits.Equal(decimal.NewFromInt(85500)), "credits=%s", record.Credits)
	assert.True(t, record.Debits.Equal(decimal.NewFromInt(13000)), "debits=%s", record.Debits)
	assert.True(t, record.DSOP.Equal(decimal.NewFromInt(8000)))
	assert.True(t, record.Tax.Equal(decimal.NewFromInt(12000)))
	assert.True(t, record.NetRemittance.Equal(decimal.NewFromInt(72500)))

	assert.Equal(t, "high", string(record.Confidence))
}

func TestExplicitTotalBeatsTableSum(t *testing.T) {
	c := newTestCoordinator(nil)

	page := "Gross Pay 5000\nEARNINGS\nBPAY 4000\nDA 2000\n"
	record := c.ExtractFromPages(context.Background(), []string{page}, constants.FormatAuto)

	assert.True(t, record.Credits.Equal(decimal.NewFromInt(5000)), "credits=%s", record.Credits)
}

func TestKnownFieldSumWhenNoTable(t *testing.T) {
	c := newTestCoordinator(nil)

	page := "Name: ANIL KUMAR\nBPAY: 4000\nDA: 1000\n"
	record := c.ExtractFromPages(context.Background(), []string{page}, constants.FormatAuto)

	assert.True(t, record.Credits.Equal(decimal.NewFromInt(5000)), "credits=%s", record.Credits)
	assert.Equal(t, "medium", string(record.Confidence))
}

func TestTabularFallbackWhenSectionsMissRows(t *testing.T) {
	c := newTestCoordinator(nil)

	// the earnings header sits on one page, the rows on the next, so the
	// per-page sectioning finds no rows and the document-wide table scan
	// has to recover them
	pages := []string{
		"STATEMENT OF ACCOUNT\nEARNINGS STATEMENT CONTINUES",
		"BPAY 50000\nDA 20000",
	}
	record := c.ExtractFromPages(context.Background(), pages, constants.FormatAuto)

	assert.True(t, record.LineItems.Earnings["Basic Pay"].Equal(decimal.NewFromInt(50000)))
	assert.True(t, record.LineItems.Earnings["Dearness Allowance"].Equal(decimal.NewFromInt(20000)))
	assert.True(t, record.Credits.Equal(decimal.NewFromInt(70000)), "credits=%s", record.Credits)
	assert.Equal(t, 2, record.Pages)
}

func TestLowConfidenceOnSparseDocument(t *testing.T) {
	c := newTestCoordinator(nil)

	record := c.ExtractFromPages(context.Background(), []string{"completely unrelated text"}, constants.FormatAuto)

	assert.Equal(t, "low", string(record.Confidence))
	assert.Equal(t, constants.FormatUnknown, record.Format)
	assert.Equal(t, constants.StructureUnknown, record.Structure)
	assert.Empty(t, record.Name)
	assert.True(t, record.Credits.IsZero())
}

func TestFormatHintFlowsThrough(t *testing.T) {
	c := newTestCoordinator(nil)

	record := c.ExtractFromPages(context.Background(), []string{armyStatement}, constants.FormatPSU)

	assert.Equal(t, constants.FormatPSU, record.Format)
}

func TestPersonalFieldEarlierPageWins(t *testing.T) {
	c := newTestCoordinator(nil)
	pages := []string{"Name: FIRST PERSON", "Name: SECOND PERSON"}

	// both pages carry the same field; the earlier page must win every time,
	// regardless of goroutine scheduling
	for i := 0; i < 200; i++ {
		record := c.ExtractFromPages(context.Background(), pages, constants.FormatAuto)
		require.NotNil(t, record)
		require.Equal(t, "FIRST PERSON", record.Name, "iteration %d", i)
	}
}

func TestExtractRecordUnreadableInput(t *testing.T) {
	c := newTestCoordinator(&stubPageExtractor{err: common.ErrUnreadableInput})

	record, err := c.ExtractRecord(context.Background(), []byte("not a document"), constants.FormatAuto)

	assert.Nil(t, record)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnreadableInput)
}

func TestExtractRecordFromBytes(t *testing.T) {
	c := newTestCoordinator(&stubPageExtractor{pages: []string{armyStatement}})

	record, err := c.ExtractRecord(context.Background(), []byte("rendered elsewhere"), constants.FormatAuto)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "ANIL KUMAR", record.Name)
	assert.NotEqual(t, record.ID.String(), "00000000-0000-0000-0000-000000000000")
}
