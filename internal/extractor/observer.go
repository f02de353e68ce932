package extractor

import (
	"log/slog"

	"github.com/google/uuid"
)

// Stage is a coordinator pipeline stage. Every stage except the text render
// is total: partial failure shows up as sparse output, not as an error.
type Stage string

const (
	StageDetecting   Stage = "detecting"
	StageStructuring Stage = "structuring"
	StageSectioning  Stage = "sectioning"
	StageParsing     Stage = "parsing"
	StageReconciling Stage = "reconciling"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Observer receives structured stage events from the coordinator. Logging is
// a collaborator concern; the default observer forwards to slog.
type Observer interface {
	OnStage(extractionID uuid.UUID, stage Stage, attrs map[string]any)
}

type slogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver adapts a slog.Logger to the Observer interface.
func NewSlogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogObserver{logger: logger}
}

func (o *slogObserver) OnStage(extractionID uuid.UUID, stage Stage, attrs map[string]any) {
	args := make([]any, 0, 2+2*len(attrs))
	args = append(args, "extraction_id", extractionID)
	for k, v := range attrs {
		args = append(args, k, v)
	}
	o.logger.Info("extract.stage."+string(stage), args...)
}
