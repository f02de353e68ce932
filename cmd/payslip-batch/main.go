package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/async"
	"github.com/devfolarin/payslip-extractor/internal/common"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/export"
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
		inmem   = flag.Bool("inmem", false, "use an in-memory learning store")
		dir     = flag.String("dir", "", "directory of payslip PDFs to process (required)")
		out     = flag.String("out", "", "output XLSX path (defaults to <dir>/../payslips.xlsx)")
		hint    = flag.String("hint", "auto", "format hint applied to every file")
		workers = flag.Int("workers", 4, "concurrent extraction workers")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "payslips.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	storePath := cfg.Store.Path
	if *inmem {
		storePath = ":memory:"
	}

	var abbrevRepo repository.AbbreviationRepository
	db, err := repository.Open(ctx, repository.Config{Path: storePath, BusyTimeout: cfg.Store.BusyTimeout}, logger)
	if err != nil {
		logger.Warn("learning store unavailable, using in-memory fallback", "error", err)
		abbrevRepo = repository.NewMemoryAbbreviationRepository()
	} else {
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.Error("close store", "error", cerr)
			}
		}()
		abbrevRepo = repository.NewAbbreviationRepository(db, logger)
	}

	norm := terminology.NewNormalizer(nil)
	tracker := learning.NewTracker(abbrevRepo, norm.KnownTerms(), logger)
	tracker.SetPromotionThresholds(cfg.Extract.PromotionMinCount, cfg.Extract.PromotionMinContexts)

	coordinator := extractor.NewCoordinator(
		textextract.NewService(textextract.Config{MaxPages: cfg.Extract.MaxPages}, logger),
		format.NewDetector(nil, 0, logger),
		patterns.DefaultCatalog(),
		parsers.NewFinancialParser(norm, tracker),
		extractor.NewSlogObserver(logger),
		logger,
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		printError("Error: read dir %s: %v\n", *dir, err)
		os.Exit(1)
	}

	formatHint := constants.ParseFormat(*hint)
	start := time.Now()

	queue := async.NewExtractorQueue(coordinator, logger, async.WithWorkers(*workers))

	var records []*entity.PayslipRecord
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for res := range queue.Results() {
			if res.Err == nil {
				records = append(records, res.Record)
			}
		}
	}()

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(*dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("batch.read.failed", "path", path, "error", err)
			continue
		}
		_ = queue.Enqueue(ctx, async.Job{Path: path, Data: data, Hint: formatHint, SubmittedAt: time.Now()})
	}

	queue.Shutdown(ctx)
	<-collected

	if len(records) == 0 {
		printError("Error: no payslips extracted from %s\n", *dir)
		os.Exit(1)
	}

	workbook, err := export.NewService(logger).RecordsXLSX(records)
	if err != nil {
		printError("Error: export: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, workbook, 0o644); err != nil {
		printError("Error: write %s: %v\n", *out, err)
		os.Exit(1)
	}

	logger.Info("batch.done",
		"records", len(records),
		"out", *out,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}
