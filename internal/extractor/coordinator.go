// Package extractor orchestrates the full extraction pipeline: detect the
// format, identify the layout family, carve sections, run the section
// parsers and the catalog scan, then reconcile everything into one
// normalized record with a confidence rating.
package extractor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/common"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/format"
	"github.com/devfolarin/payslip-extractor/internal/parsers"
	"github.com/devfolarin/payslip-extractor/internal/patterns"
	"github.com/devfolarin/payslip-extractor/internal/sections"
	"github.com/devfolarin/payslip-extractor/internal/structure"
)

// PageTextExtractor is the upstream collaborator that renders document bytes
// into per-page text. An unreadable page is an empty string, not an error;
// only input that is no document at all fails.
type PageTextExtractor interface {
	ExtractPages(data []byte) ([]string, error)
}

// Coordinator wires the pipeline stages together. All collaborators are
// injected at construction; there is no process-wide mutable state.
type Coordinator struct {
	pages     PageTextExtractor
	detector  *format.Detector
	catalog   *patterns.Catalog
	financial *parsers.FinancialParser
	observer  Observer
	logger    *slog.Logger
}

func NewCoordinator(
	pages PageTextExtractor,
	detector *format.Detector,
	catalog *patterns.Catalog,
	financial *parsers.FinancialParser,
	observer Observer,
	logger *slog.Logger,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = NewSlogObserver(logger)
	}
	if catalog == nil {
		catalog = patterns.DefaultCatalog()
	}
	if financial == nil {
		financial = parsers.NewFinancialParser(nil, nil)
	}
	return &Coordinator{
		pages:     pages,
		detector:  detector,
		catalog:   catalog,
		financial: financial,
		observer:  observer,
		logger:    logger,
	}
}

// ExtractRecord runs the full pipeline over raw document bytes. The only
// error it can return wraps common.ErrUnreadableInput; every downstream
// stage degrades to sparse output instead of failing.
func (c *Coordinator) ExtractRecord(ctx context.Context, data []byte, hint constants.PayslipFormat) (*entity.PayslipRecord, error) {
	id := uuid.New()

	pageTexts, err := c.pages.ExtractPages(data)
	if err != nil {
		c.observer.OnStage(id, StageFailed, map[string]any{"error": err.Error()})
		return nil, common.WrapError(err, "render document")
	}

	return c.extractFromPages(ctx, id, pageTexts, hint), nil
}

// ExtractFromPages runs the pipeline over already-rendered page text, in
// original page order. Used directly when a collaborator has its own text
// source, and by tests.
func (c *Coordinator) ExtractFromPages(ctx context.Context, pageTexts []string, hint constants.PayslipFormat) *entity.PayslipRecord {
	return c.extractFromPages(ctx, uuid.New(), pageTexts, hint)
}

func (c *Coordinator) extractFromPages(ctx context.Context, id uuid.UUID, pageTexts []string, hint constants.PayslipFormat) *entity.PayslipRecord {
	fullText := strings.Join(pageTexts, "\n")

	c.observer.OnStage(id, StageDetecting, nil)
	detected := c.detector.DetectDetailed(ctx, fullText, hint)

	c.observer.OnStage(id, StageStructuring, map[string]any{"format": detected.Format})
	layout := structure.Identify(fullText)

	c.observer.OnStage(id, StageSectioning, map[string]any{"structure": layout})
	docSections := sections.Extract(pageTexts, layout)

	c.observer.OnStage(id, StageParsing, map[string]any{"sections": len(docSections)})
	parsed := c.parse(fullText, docSections)

	c.observer.OnStage(id, StageReconciling, nil)
	record := c.reconcile(id, fullText, parsed)
	record.Format = detected.Format
	record.Structure = layout
	record.Pages = len(pageTexts)

	c.observer.OnStage(id, StageDone, map[string]any{"confidence": record.Confidence})
	return record
}

// parseResult is the join point of the concurrent parsing stage.
type parseResult struct {
	scalars    map[constants.FieldKey]string
	earnings   map[string]decimal.Decimal
	deductions map[string]decimal.Decimal
	taxRows    map[string]decimal.Decimal
	fundRows   map[string]decimal.Decimal
	contact    map[string]string
}

// sectionResult is one section parser's output; only the maps matching the
// section kind are populated.
type sectionResult struct {
	scalars    map[constants.FieldKey]string
	earnings   map[string]decimal.Decimal
	deductions map[string]decimal.Decimal
	taxRows    map[string]decimal.Decimal
	fundRows   map[string]decimal.Decimal
	contact    map[string]string
}

// parse runs the catalog-wide scalar scan and the per-section parsers
// concurrently, each writing its own slot. Merging happens after the join,
// sequentially in page/section order, so first match per field always wins
// no matter how the goroutines are scheduled. Section hits are
// label-anchored and beat the document-wide scan, which only fills fields no
// section claimed.
func (c *Coordinator) parse(fullText string, docSections []entity.DocumentSection) parseResult {
	result := parseResult{
		scalars:    make(map[constants.FieldKey]string),
		earnings:   make(map[string]decimal.Decimal),
		deductions: make(map[string]decimal.Decimal),
		taxRows:    make(map[string]decimal.Decimal),
		fundRows:   make(map[string]decimal.Decimal),
		contact:    make(map[string]string),
	}

	var catalogScalars map[constants.FieldKey]string
	sectionOuts := make([]sectionResult, len(docSections))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		catalogScalars = c.catalog.ExtractScalars(fullText)
	}()

	for i, section := range docSections {
		wg.Add(1)
		go func(i int, section entity.DocumentSection) {
			defer wg.Done()
			sectionOuts[i] = c.parseSection(section)
		}(i, section)
	}
	wg.Wait()

	for _, out := range sectionOuts {
		for k, v := range out.scalars {
			if _, seen := result.scalars[k]; !seen && v != "" {
				result.scalars[k] = v
			}
		}
		mergeRows(result.earnings, out.earnings)
		mergeRows(result.deductions, out.deductions)
		mergeRows(result.taxRows, out.taxRows)
		mergeRows(result.fundRows, out.fundRows)
		for k, v := range out.contact {
			if _, seen := result.contact[k]; !seen {
				result.contact[k] = v
			}
		}
	}

	for k, v := range catalogScalars {
		if _, seen := result.scalars[k]; !seen {
			result.scalars[k] = v
		}
	}

	return result
}

func (c *Coordinator) parseSection(section entity.DocumentSection) sectionResult {
	switch section.Name {
	case constants.SectionPersonal, constants.SectionUnknown:
		return sectionResult{scalars: parsers.ParsePersonal(section)}
	case constants.SectionEarnings:
		return sectionResult{earnings: c.financial.ParseEarnings(section)}
	case constants.SectionDeductions:
		return sectionResult{deductions: c.financial.ParseDeductions(section)}
	case constants.SectionTax:
		return sectionResult{taxRows: c.financial.ParseTax(section)}
	case constants.SectionFund:
		return sectionResult{fundRows: c.financial.ParseFund(section)}
	case constants.SectionContact:
		return sectionResult{contact: parsers.ParseContact(section)}
	}
	return sectionResult{}
}

func mergeRows(dst, src map[string]decimal.Decimal) {
	for label, amount := range src {
		if _, seen := dst[label]; !seen {
			dst[label] = amount
		}
	}
}

func (c *Coordinator) reconcile(id uuid.UUID, fullText string, parsed parseResult) *entity.PayslipRecord {
	// the tabular fallback scan only runs when the sectioned parse found
	// nothing, so sectioned rows always win
	if len(parsed.earnings) == 0 && len(parsed.deductions) == 0 {
		earnings, deductions := patterns.ExtractTable(fullText)
		mergeRows(parsed.earnings, c.financial.NormalizeTable(earnings, constants.ContextEarnings))
		mergeRows(parsed.deductions, c.financial.NormalizeTable(deductions, constants.ContextDeductions))
	}

	record := &entity.PayslipRecord{
		ID:            id,
		Name:          parsed.scalars[constants.FieldName],
		AccountNumber: parsed.scalars[constants.FieldAccountNumber],
		PANNumber:     parsed.scalars[constants.FieldPANNumber],
		LineItems: entity.LineItemTable{
			Earnings:   parsed.earnings,
			Deductions: parsed.deductions,
		},
		Contact:     parsed.contact,
		ExtractedAt: time.Now().UTC(),
	}

	record.Month, record.Year = patterns.ExtractPeriod(fullText)

	record.Credits = resolveAggregate(
		parsed.scalars[constants.FieldGrossPay],
		parsed.earnings,
		parsed.scalars, constants.KnownEarningFields,
	)
	record.Debits = resolveAggregate(
		parsed.scalars[constants.FieldTotalDeductions],
		parsed.deductions,
		parsed.scalars, constants.KnownDeductionFields,
	)

	record.DSOP = resolveDSOP(parsed)
	record.Tax = resolveTax(parsed)

	record.NetRemittance = parseAmount(parsed.scalars[constants.FieldNetRemittance])
	if record.NetRemittance.IsZero() && record.Credits.IsPositive() && record.Debits.IsPositive() {
		record.NetRemittance = record.Credits.Sub(record.Debits)
	}

	record.Confidence = rateConfidence(record)
	return record
}
