// Package format decides the content dialect of a payslip. Keyword
// heuristics are cheap and auditable; the optional automated classifier is
// opportunistic and must prove itself via confidence before being trusted.
package format

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devfolarin/payslip-extractor/constants"
)

// Result is the detailed detection output: format plus confidence and
// reasoning when the automated path produced it.
type Result struct {
	Format     constants.PayslipFormat `json:"format"`
	Confidence float64                 `json:"confidence"`
	Reasoning  string                  `json:"reasoning"`
}

// Classifier is the optional automated format classifier collaborator.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Marker lists per dialect. The bilingual PCDA sub-dialect shares most of
// the PCDA markers, so it needs at least two hits before it beats plain PCDA.
var (
	pcdaMarkers = []string{
		"principal controller of defence accounts",
		"pcda",
		"pay & allowances",
		"statement of account",
	}
	bilingualMarkers = []string{
		"आय",
		"कटौती",
		"वेतन",
		"रक्षा लेखा",
	}
	militaryMarkers = []string{
		"military",
		"defence",
		"dsop",
		"agif",
		"service no",
	}
	psuMarkers = []string{
		"public sector",
		"psu",
		"undertaking",
	}
	corporateMarkers = []string{
		"cost to company",
		"ctc",
		"employee code",
		"pf account",
	}
)

const bilingualMinMatches = 2

// Detector decides the overall payslip dialect. The classifier is optional;
// a nil classifier leaves only the keyword path.
type Detector struct {
	classifier    Classifier
	minConfidence float64
	logger        *slog.Logger
}

// NewDetector builds a Detector. minConfidence at or below zero selects the
// default gate of 0.7.
func NewDetector(classifier Classifier, minConfidence float64, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if minConfidence <= 0 {
		minConfidence = 0.7
	}
	return &Detector{classifier: classifier, minConfidence: minConfidence, logger: logger}
}

// Detect returns just the format; see DetectDetailed for the full result.
func (d *Detector) Detect(ctx context.Context, text string, hint constants.PayslipFormat) constants.PayslipFormat {
	return d.DetectDetailed(ctx, text, hint).Format
}

// DetectDetailed applies the layered decision order: a non-auto user hint on
// non-empty text wins outright and is re-evaluated on every call; otherwise
// the classifier is consulted and trusted only above the confidence gate;
// otherwise keyword scoring; otherwise unknown.
func (d *Detector) DetectDetailed(ctx context.Context, text string, hint constants.PayslipFormat) Result {
	if hint != constants.FormatAuto && hint != "" && strings.TrimSpace(text) != "" {
		d.logger.Info("format.detect.hint", "format", hint)
		return Result{Format: hint, Confidence: 1.0, Reasoning: "user format hint"}
	}

	if d.classifier != nil {
		res, err := d.classifier.Classify(ctx, text)
		switch {
		case err != nil:
			d.logger.Warn("format.classifier.failed", "error", err)
		case res.Confidence > d.minConfidence:
			d.logger.Info("format.detect.classifier", "format", res.Format, "confidence", res.Confidence)
			return res
		default:
			d.logger.Info("format.classifier.discarded", "format", res.Format, "confidence", res.Confidence)
		}
	}

	return d.scoreKeywords(text)
}

func (d *Detector) scoreKeywords(text string) Result {
	lower := strings.ToLower(text)

	bilingualHits := countMarkers(lower, bilingualMarkers)
	pcdaHits := countMarkers(lower, pcdaMarkers)

	var format constants.PayslipFormat
	var hits int
	switch {
	case pcdaHits > 0 && bilingualHits >= bilingualMinMatches:
		format, hits = constants.FormatPCDABilingual, pcdaHits+bilingualHits
	case pcdaHits > 0:
		format, hits = constants.FormatPCDA, pcdaHits
	case countMarkers(lower, militaryMarkers) > 0:
		format, hits = constants.FormatMilitary, countMarkers(lower, militaryMarkers)
	case countMarkers(lower, psuMarkers) > 0:
		format, hits = constants.FormatPSU, countMarkers(lower, psuMarkers)
	case countMarkers(lower, corporateMarkers) > 0:
		format, hits = constants.FormatCorporate, countMarkers(lower, corporateMarkers)
	default:
		return Result{Format: constants.FormatUnknown, Reasoning: "no markers matched"}
	}

	d.logger.Info("format.detect.keywords", "format", format, "markers", hits)
	return Result{
		Format:     format,
		Confidence: 0,
		Reasoning:  fmt.Sprintf("keyword scoring: %d marker(s) matched", hits),
	}
}

func countMarkers(lower string, markers []string) int {
	count := 0
	for _, m := range markers {
		if strings.Contains(lower, m) {
			count++
		}
	}
	return count
}
