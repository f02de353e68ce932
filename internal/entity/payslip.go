package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devfolarin/payslip-extractor/constants"
)

// Confidence is the overall rating attached to an extracted record.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// LineItemTable holds the itemized earnings and deductions of one statement,
// keyed by canonical pay-component name. Amounts are always >= 0; zero
// amounts are dropped on insert rather than stored.
type LineItemTable struct {
	Earnings   map[string]decimal.Decimal `json:"earnings"`
	Deductions map[string]decimal.Decimal `json:"deductions"`
}

func NewLineItemTable() LineItemTable {
	return LineItemTable{
		Earnings:   make(map[string]decimal.Decimal),
		Deductions: make(map[string]decimal.Decimal),
	}
}

// AddEarning records an earning line item, ignoring non-positive amounts.
func (t LineItemTable) AddEarning(label string, amount decimal.Decimal) {
	if amount.IsPositive() {
		t.Earnings[label] = amount
	}
}

// AddDeduction records a deduction line item, ignoring non-positive amounts.
func (t LineItemTable) AddDeduction(label string, amount decimal.Decimal) {
	if amount.IsPositive() {
		t.Deductions[label] = amount
	}
}

// PayslipRecord is the normalized output of one extraction. It is created
// once per successful extraction and never mutated afterwards; persistence
// is a collaborator concern.
type PayslipRecord struct {
	ID uuid.UUID `json:"id"`

	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	PANNumber     string `json:"pan_number"`

	Month string `json:"month"`
	Year  int    `json:"year"`

	Credits       decimal.Decimal `json:"credits"`
	Debits        decimal.Decimal `json:"debits"`
	DSOP          decimal.Decimal `json:"dsop"`
	Tax           decimal.Decimal `json:"tax"`
	NetRemittance decimal.Decimal `json:"net_remittance"`

	LineItems LineItemTable `json:"line_items"`

	Contact map[string]string `json:"contact,omitempty"`

	Format     constants.PayslipFormat     `json:"format"`
	Structure  constants.DocumentStructure `json:"structure"`
	Pages      int                         `json:"pages"`
	Confidence Confidence                  `json:"confidence"`

	ExtractedAt time.Time `json:"extracted_at"`
}
