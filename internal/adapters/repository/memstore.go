package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/pkg/metrics"
)

// MemoryStore is an in-process Store. It backs tests and dry runs of the
// seeder; data is lost when the process exits.
type MemoryStore struct {
	mu        sync.RWMutex
	records   map[string]model.Record
	trainings []model.Training
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]model.Record)}
}

// SaveRecord implements Store.
func (s *MemoryStore) SaveRecord(_ context.Context, r model.Record) (model.Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.MeasuredAt.IsZero() {
		r.MeasuredAt = time.Now()
	}
	r.MeasuredAt = r.MeasuredAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.ID]; ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	s.records[r.ID] = r
	metrics.UpdateStoredRecords(len(s.records))
	return r, nil
}

// GetRecord implements Store.
func (s *MemoryStore) GetRecord(_ context.Context, id string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// ListRecords implements Store.
func (s *MemoryStore) ListRecords(_ context.Context, f model.Filter) ([]model.Record, error) {
	s.mu.RLock()
	out := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].MeasuredAt.Equal(out[j].MeasuredAt) {
			return out[i].MeasuredAt.Before(out[j].MeasuredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ReplaceTrainings implements Store.
func (s *MemoryStore) ReplaceTrainings(_ context.Context, ts []model.Training) error {
	cp := make([]model.Training, len(ts))
	copy(cp, ts)
	sort.SliceStable(cp, func(i, j int) bool {
		a, b := cp[i], cp[j]
		if a.AbilityKey != b.AbilityKey {
			return a.AbilityKey.String() < b.AbilityKey.String()
		}
		if a.AgeGroup != b.AgeGroup {
			return a.AgeGroup < b.AgeGroup
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})

	s.mu.Lock()
	s.trainings = cp
	s.mu.Unlock()
	metrics.UpdateTrainingCatalogSize(len(cp))
	return nil
}

// ListTrainings implements Store.
func (s *MemoryStore) ListTrainings(_ context.Context) ([]model.Training, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Training, len(s.trainings))
	copy(out, s.trainings)
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metrics.UpdateStoredRecords(len(s.records))
	return len(s.records), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLStore)(nil)
)
