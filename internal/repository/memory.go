package repository

import (
	"context"
	"sync"

	"github.com/devfolarin/payslip-extractor/internal/entity"
)

// memoryRepo is the fallback store used when the sqlite file cannot be
// opened, and the default store in tests. Copies records on the way in and
// out so callers cannot alias its internals.
type memoryRepo struct {
	mu      sync.Mutex
	records map[string]*entity.UnknownAbbreviation
}

func NewMemoryAbbreviationRepository() AbbreviationRepository {
	return &memoryRepo{records: make(map[string]*entity.UnknownAbbreviation)}
}

func (r *memoryRepo) LoadAll(_ context.Context) (map[string]*entity.UnknownAbbreviation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.UnknownAbbreviation, len(r.records))
	for k, v := range r.records {
		out[k] = copyRecord(v)
	}
	return out, nil
}

func (r *memoryRepo) Save(_ context.Context, rec *entity.UnknownAbbreviation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Abbreviation] = copyRecord(rec)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, abbreviation string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, abbreviation)
	return nil
}

func copyRecord(rec *entity.UnknownAbbreviation) *entity.UnknownAbbreviation {
	dup := *rec
	dup.Values = append([]float64(nil), rec.Values...)
	dup.Contexts = append([]string(nil), rec.Contexts...)
	return &dup
}
