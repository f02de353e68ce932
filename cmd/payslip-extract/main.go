package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/extractor"
	"github.com/devfolarin/payslip-extractor/internal/format"
	"github.com/devfolarin/payslip-extractor/internal/learning"
	"github.com/devfolarin/payslip-extractor/internal/parsers"
	"github.com/devfolarin/payslip-extractor/internal/patterns"
	"github.com/devfolarin/payslip-extractor/internal/repository"
	"github.com/devfolarin/payslip-extractor/internal/terminology"
	"github.com/devfolarin/payslip-extractor/internal/textextract"
)

// printError prints to stderr, falling back to stdout if stderr fails
func printError(formatStr string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, formatStr, args...); err != nil {
		fmt.Printf(formatStr, args...)
	}
}

func main() {
	var (
		file = flag.String("file", "", "payslip PDF to extract (required)")
		hint = flag.String("hint", "auto", "format hint (auto, pcda, pcda_bilingual, military, psu, corporate)")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: --file is required\n")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	data, err := os.ReadFile(*file)
	if err != nil {
		printError("Error: read %s: %v\n", *file, err)
		os.Exit(1)
	}

	norm := terminology.NewNormalizer(nil)
	tracker := learning.NewTracker(repository.NewMemoryAbbreviationRepository(), norm.KnownTerms(), logger)

	coordinator := extractor.NewCoordinator(
		textextract.NewService(textextract.Config{}, logger),
		format.NewDetector(nil, 0, logger),
		patterns.DefaultCatalog(),
		parsers.NewFinancialParser(norm, tracker),
		extractor.NewSlogObserver(logger),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	record, err := coordinator.ExtractRecord(ctx, data, constants.ParseFormat(*hint))
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		printError("Error: encode record: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
