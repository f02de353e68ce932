// Package export renders extracted payslip records to XLSX workbooks for
// downstream bookkeeping.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/devfolarin/payslip-extractor/internal/entity"
)

// Service produces XLSX bytes from extracted records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

const (
	summarySheet   = "Payslips"
	lineItemsSheet = "Line Items"
)

// RecordsXLSX returns an XLSX workbook with one summary row per record and a
// second sheet listing every earnings/deductions line item.
func (s *Service) RecordsXLSX(records []*entity.PayslipRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(lineItemsSheet); err != nil {
		return nil, err
	}

	writeRow(f, summarySheet, 1, []any{
		"Record ID", "Name", "Account Number", "PAN", "Month", "Year",
		"Credits", "Debits", "DSOP", "Tax", "Net Remittance",
		"Format", "Structure", "Confidence",
	})

	for i, r := range records {
		writeRow(f, summarySheet, i+2, []any{
			r.ID.String(), r.Name, r.AccountNumber, r.PANNumber, r.Month, r.Year,
			r.Credits.String(), r.Debits.String(), r.DSOP.String(), r.Tax.String(), r.NetRemittance.String(),
			string(r.Format), string(r.Structure), string(r.Confidence),
		})
	}

	writeRow(f, lineItemsSheet, 1, []any{"Record ID", "Type", "Component", "Amount"})
	row := 2
	for _, r := range records {
		for _, label := range sortedLabels(r.LineItems.Earnings) {
			writeRow(f, lineItemsSheet, row, []any{r.ID.String(), "earning", label, r.LineItems.Earnings[label].String()})
			row++
		}
		for _, label := range sortedLabels(r.LineItems.Deductions) {
			writeRow(f, lineItemsSheet, row, []any{r.ID.String(), "deduction", label, r.LineItems.Deductions[label].String()})
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("export.write.failed", "error", err)
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.ok",
		"records", len(records),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func sortedLabels[V any](m map[string]V) []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
