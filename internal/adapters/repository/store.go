// Package repository archives computed birth charts. It defines the
// Store contract plus two implementations: a process-local in-memory
// archive and a durable SQLite archive.
package repository

import (
	"context"

	"github.com/okian/kundali/internal/domain/model"
)

// Store provides read/write access to the chart archive.
type Store interface {
	// Save archives a chart, replacing any chart with the same ID.
	Save(ctx context.Context, chart model.BirthChart) error

	// Get returns the chart with the given ID.
	// Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (model.BirthChart, error)

	// Recent returns up to n charts, most recently saved first.
	Recent(ctx context.Context, n int) ([]model.BirthChart, error)

	// Count returns the number of archived charts.
	Count(ctx context.Context) int

	// Close releases the archive's resources.
	Close() error
}
