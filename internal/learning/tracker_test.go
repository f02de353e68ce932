package learning

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/repository"
)

type failingRepo struct{}

func (failingRepo) LoadAll(context.Context) (map[string]*entity.UnknownAbbreviation, error) {
	return nil, errors.New("disk on fire")
}

func (failingRepo) Save(context.Context, *entity.UnknownAbbreviation) error {
	return errors.New("disk on fire")
}

func (failingRepo) Delete(context.Context, string) error {
	return errors.New("disk on fire")
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	return NewTracker(repository.NewMemoryAbbreviationRepository(), []string{"BPAY", "DSOP"}, nil)
}

func TestTrackAccumulates(t *testing.T) {
	tr := newTestTracker(t)

	tr.Track("XYZ", constants.ContextEarnings, 3000)
	tr.Track("xyz", constants.ContextEarnings, 3500)

	candidates := tr.PromotionCandidates(1)
	require.Len(t, candidates, 1)
	rec := candidates[0]
	assert.Equal(t, "XYZ", rec.Abbreviation)
	assert.Equal(t, 2, rec.Count)
	assert.Equal(t, []float64{3000, 3500}, rec.Values)
	assert.Equal(t, []string{constants.ContextEarnings}, rec.Contexts)
	assert.False(t, rec.FirstSeen.IsZero())
	assert.False(t, rec.LastSeen.Before(rec.FirstSeen))
}

func TestTrackKnownTermIsNoOp(t *testing.T) {
	tr := newTestTracker(t)

	tr.Track("BPAY", constants.ContextEarnings, 50000)
	tr.Track("bpay", constants.ContextEarnings, 50000)

	assert.Empty(t, tr.PromotionCandidates(1))
}

func TestTrackEmptyTermIsNoOp(t *testing.T) {
	tr := newTestTracker(t)

	tr.Track("   ", constants.ContextEarnings, 100)

	assert.Empty(t, tr.PromotionCandidates(1))
}

func TestSuggestTypeContextExclusivity(t *testing.T) {
	tr := newTestTracker(t)

	// deduction-only context beats a positive mean value
	tr.Track("RSHNB", constants.ContextDeductions, 1200)
	assert.Equal(t, SuggestDeduction, tr.SuggestType("RSHNB"))

	tr.Track("SPCA", constants.ContextEarnings, 900)
	assert.Equal(t, SuggestEarning, tr.SuggestType("SPCA"))
}

func TestSuggestTypeMixedContextsUseMeanSign(t *testing.T) {
	tr := newTestTracker(t)

	tr.Track("ADJX", constants.ContextEarnings, -500)
	tr.Track("ADJX", constants.ContextDeductions, -700)
	assert.Equal(t, SuggestDeduction, tr.SuggestType("ADJX"))

	tr.Track("ADJY", constants.ContextEarnings, 800)
	tr.Track("ADJY", constants.ContextDeductions, 200)
	assert.Equal(t, SuggestEarning, tr.SuggestType("ADJY"))
}

func TestSuggestTypeUnknownTerm(t *testing.T) {
	tr := newTestTracker(t)

	assert.Equal(t, SuggestNone, tr.SuggestType("NEVER SEEN"))
}

func TestPromotionCandidatesThresholdAndOrder(t *testing.T) {
	tr := newTestTracker(t)

	for i := 0; i < 5; i++ {
		tr.Track("FREQ", constants.ContextEarnings, 100)
	}
	for i := 0; i < 3; i++ {
		tr.Track("MID", constants.ContextEarnings, 100)
	}
	tr.Track("RARE", constants.ContextEarnings, 100)

	candidates := tr.PromotionCandidates(3)
	require.Len(t, candidates, 2)
	assert.Equal(t, "FREQ", candidates[0].Abbreviation)
	assert.Equal(t, "MID", candidates[1].Abbreviation)
}

func TestPromotionCandidatesReturnsCopies(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("COPYME", constants.ContextEarnings, 100)

	first := tr.PromotionCandidates(1)
	first[0].Values[0] = -999

	second := tr.PromotionCandidates(1)
	assert.Equal(t, []float64{100}, second[0].Values)
}

func TestTrackOrderDoesNotChangeTotals(t *testing.T) {
	a := newTestTracker(t)
	a.Track("ORD", constants.ContextEarnings, 1)
	a.Track("ORD", constants.ContextDeductions, 2)

	b := newTestTracker(t)
	b.Track("ORD", constants.ContextDeductions, 2)
	b.Track("ORD", constants.ContextEarnings, 1)

	ra := a.PromotionCandidates(1)[0]
	rb := b.PromotionCandidates(1)[0]

	assert.Equal(t, ra.Count, rb.Count)
	sort.Float64s(ra.Values)
	sort.Float64s(rb.Values)
	assert.Equal(t, ra.Values, rb.Values)
	sort.Strings(ra.Contexts)
	sort.Strings(rb.Contexts)
	assert.Equal(t, ra.Contexts, rb.Contexts)
}

func TestDelete(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("GONE", constants.ContextEarnings, 50)

	require.NoError(t, tr.Delete(context.Background(), "gone"))

	assert.Empty(t, tr.PromotionCandidates(1))
	assert.Equal(t, SuggestNone, tr.SuggestType("GONE"))
}

func TestStoreFailuresAreSwallowed(t *testing.T) {
	tr := NewTracker(failingRepo{}, nil, nil)

	tr.Track("XYZ", constants.ContextEarnings, 10)

	candidates := tr.PromotionCandidates(1)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1, candidates[0].Count)
}
