package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devfolarin/payslip-extractor/internal/classifier"
	"github.com/devfolarin/payslip-extractor/internal/common"
	"github.com/devfolarin/payslip-extractor/internal/export"
	"github.com/devfolarin/payslip-extractor/internal/extractor"
	"github.com/devfolarin/payslip-extractor/internal/format"
	"github.com/devfolarin/payslip-extractor/internal/learning"
	"github.com/devfolarin/payslip-extractor/internal/parsers"
	"github.com/devfolarin/payslip-extractor/internal/patterns"
	"github.com/devfolarin/payslip-extractor/internal/repository"
	"github.com/devfolarin/payslip-extractor/internal/server"
	"github.com/devfolarin/payslip-extractor/internal/terminology"
	"github.com/devfolarin/payslip-extractor/internal/textextract"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repository.Open(ctx, repository.Config{
		Path:        cfg.Store.Path,
		BusyTimeout: cfg.Store.BusyTimeout,
	}, logger)
	cancel()

	// a broken learning store must never block extraction; degrade to the
	// in-memory repository
	var abbrevRepo repository.AbbreviationRepository
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

	var autoClassifier format.Classifier
	if cfg.Classifier.URL != "" {
		autoClassifier = classifier.NewClient(classifier.Config{
			URL:     cfg.Classifier.URL,
			Timeout: cfg.Classifier.Timeout,
		}, logger)
	}
	detector := format.NewDetector(autoClassifier, cfg.Classifier.MinConfidence, logger)

	coordinator := extractor.NewCoordinator(
		textextract.NewService(textextract.Config{MaxPages: cfg.Extract.MaxPages}, logger),
		detector,
		patterns.DefaultCatalog(),
		parsers.NewFinancialParser(norm, tracker),
		extractor.NewSlogObserver(logger),
		logger,
	)

	srv := server.New(coordinator, detector, tracker, export.NewService(logger), logger)

	r := gin.Default()
	srv.Register(r)

	logger.Info("payslipd listening", "addr", cfg.Server.HTTPAddr)
	if err := r.Run(cfg.Server.HTTPAddr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
