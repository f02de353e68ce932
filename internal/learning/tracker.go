// Package learning tracks abbreviations the terminology table does not
// recognize and suggests which ones have earned a place in the pattern
// catalog. Suggestions are advisory; the catalog is never mutated here.
package learning

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/repository"
)

// SuggestedType classifies an unknown term as a probable earning or
// deduction.
type SuggestedType string

const (
	SuggestEarning   SuggestedType = "earning"
	SuggestDeduction SuggestedType = "deduction"
	SuggestNone      SuggestedType = "none"
)

// Tracker is the one piece of cross-document shared mutable state in the
// pipeline. A mutex serializes read-modify-write updates so concurrent
// documents cannot lose counts; persistence failures degrade to the
// in-memory table and never surface to extraction.
type Tracker struct {
	mu      sync.Mutex
	known   map[string]struct{}
	records map[string]*entity.UnknownAbbreviation

	repo   repository.AbbreviationRepository
	logger *slog.Logger

	promotionMinCount    int
	promotionMinContexts int
}

// NewTracker loads the persisted table. knownTerms is the catalog vocabulary
// (lookups are case-insensitive); tracking one of these is a no-op. A load
// failure is logged and swallowed, starting from an empty table.
func NewTracker(repo repository.AbbreviationRepository, knownTerms []string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if repo == nil {
		repo = repository.NewMemoryAbbreviationRepository()
	}

	known := make(map[string]struct{}, len(knownTerms))
	for _, t := range knownTerms {
		known[termKey(t)] = struct{}{}
	}

	records, err := repo.LoadAll(context.Background())
	if err != nil {
		logger.Warn("learning.load.failed", "error", err)
		records = make(map[string]*entity.UnknownAbbreviation)
	}

	return &Tracker{
		known:                known,
		records:              records,
		repo:                 repo,
		logger:               logger,
		promotionMinCount:    5,
		promotionMinContexts: 3,
	}
}

// SetPromotionThresholds overrides the defaults (count >= 5, contexts >= 3).
// Non-positive values keep the current setting.
func (t *Tracker) SetPromotionThresholds(minCount, minContexts int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if minCount > 0 {
		t.promotionMinCount = minCount
	}
	if minContexts > 0 {
		t.promotionMinContexts = minContexts
	}
}

// Track records one sighting of an abbreviation. No-op for known catalog
// terms. The updated record is persisted immediately; a store failure is
// logged and swallowed so extraction is never blocked.
func (t *Tracker) Track(abbreviation, trackContext string, value float64) {
	key := termKey(abbreviation)
	if key == "" {
		return
	}
	if _, ok := t.known[key]; ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	rec, ok := t.records[key]
	if !ok {
		rec = &entity.UnknownAbbreviation{
			Abbreviation: key,
			FirstSeen:    now,
		}
		t.records[key] = rec
	}
	rec.Count++
	rec.Values = append(rec.Values, value)
	rec.AddContext(trackContext)
	rec.LastSeen = now

	if err := t.repo.Save(context.Background(), rec); err != nil {
		t.logger.Warn("learning.persist.failed", "abbreviation", key, "error", err)
	}

	if rec.Count >= t.promotionMinCount || len(rec.Contexts) >= t.promotionMinContexts {
		t.logger.Info("learning.promotion_candidate",
			"abbreviation", key,
			"count", rec.Count,
			"contexts", len(rec.Contexts),
		)
	}
}

// SuggestType infers whether an unknown term is an earning or a deduction.
// Context exclusivity wins; mixed or absent contexts fall back to the sign
// of the mean observed value. A heuristic, not a guarantee.
func (t *Tracker) SuggestType(abbreviation string) SuggestedType {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[termKey(abbreviation)]
	if !ok {
		return SuggestNone
	}

	inEarnings := rec.HasContext(constants.ContextEarnings)
	inDeductions := rec.HasContext(constants.ContextDeductions)
	switch {
	case inEarnings && !inDeductions:
		return SuggestEarning
	case inDeductions && !inEarnings:
		return SuggestDeduction
	}

	mean := rec.MeanValue()
	switch {
	case mean > 0:
		return SuggestEarning
	case mean < 0:
		return SuggestDeduction
	}
	return SuggestNone
}

// PromotionCandidates returns copies of every record seen at least
// minOccurrences times, most frequent first.
func (t *Tracker) PromotionCandidates(minOccurrences int) []entity.UnknownAbbreviation {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []entity.UnknownAbbreviation
	for _, rec := range t.records {
		if rec.Count >= minOccurrences {
			dup := *rec
			dup.Values = append([]float64(nil), rec.Values...)
			dup.Contexts = append([]string(nil), rec.Contexts...)
			out = append(out, dup)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Abbreviation < out[j].Abbreviation
	})
	return out
}

// Delete removes a record, in memory and durably. This is the only deletion
// path; records are never implicitly dropped.
func (t *Tracker) Delete(ctx context.Context, abbreviation string) error {
	key := termKey(abbreviation)

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, key)
	return t.repo.Delete(ctx, key)
}

func termKey(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}
