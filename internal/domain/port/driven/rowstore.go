package driven

import (
	"context"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
)

// RowStore defines the driven port for roster persistence.
type RowStore interface {
	// ListAll returns every roster row ordered by ID.
	ListAll(ctx context.Context) ([]model.EvaluationRow, error)

	// Get returns a single row by ID, or nil if it does not exist.
	Get(ctx context.Context, id int64) (*model.EvaluationRow, error)

	// AddEmpty appends n blank rows and returns them with assigned IDs.
	AddEmpty(ctx context.Context, n int) ([]model.EvaluationRow, error)

	// Update replaces the editable fields of an existing row.
	// Returns an error if the row does not exist.
	Update(ctx context.Context, row model.EvaluationRow) error

	// Delete removes a row by ID. Returns an error if the row does not exist.
	Delete(ctx context.Context, id int64) error

	// ReplaceAll atomically replaces the whole roster with the given rows.
	// Used by CSV import.
	ReplaceAll(ctx context.Context, rows []model.EvaluationRow) ([]model.EvaluationRow, error)
}
