// Package repository persists measurement records and the training catalog.
package repository

import (
	"context"

	"github.com/okian/fitscore/internal/domain/model"
)

// Store provides read/write access to measurement records and trainings.
type Store interface {
	// SaveRecord inserts a record, assigning an ID when it has none.
	SaveRecord(ctx context.Context, r model.Record) (model.Record, error)

	// GetRecord returns a record by ID or ErrNotFound.
	GetRecord(ctx context.Context, id string) (model.Record, error)

	// ListRecords returns the records matching f ordered by measurement
	// time, then ID.
	ListRecords(ctx context.Context, f model.Filter) ([]model.Record, error)

	// ReplaceTrainings swaps the whole training catalog.
	ReplaceTrainings(ctx context.Context, ts []model.Training) error

	// ListTrainings returns the catalog ordered by ability, age group and
	// sort order.
	ListTrainings(ctx context.Context) ([]model.Training, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Close() error
}
