package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RowStore = (*RowRepo)(nil)

// RowRepo is the SQLite implementation of the RowStore port.
type RowRepo struct {
	db *DB
}

// NewRowRepo creates a new RowRepo backed by the given DB.
func NewRowRepo(db *DB) *RowRepo {
	return &RowRepo{db: db}
}

// ListAll returns every roster row ordered by ID.
func (r *RowRepo) ListAll(ctx context.Context) ([]model.EvaluationRow, error) {
	const query = `SELECT id, student_name, observations, draft, created_at, updated_at FROM rows ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	var result []model.EvaluationRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// Get returns a single row by ID, or nil if it does not exist.
func (r *RowRepo) Get(ctx context.Context, id int64) (*model.EvaluationRow, error) {
	const query = `SELECT id, student_name, observations, draft, created_at, updated_at FROM rows WHERE id = ?`

	row, err := scanRow(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get row %d: %w", id, err)
	}
	return row, nil
}

// AddEmpty appends n blank rows and returns them with assigned IDs.
func (r *RowRepo) AddEmpty(ctx context.Context, n int) ([]model.EvaluationRow, error) {
	const query = `INSERT INTO rows DEFAULT VALUES RETURNING id, student_name, observations, draft, created_at, updated_at`

	created := make([]model.EvaluationRow, 0, n)
	for range n {
		row, err := scanRow(r.db.Writer.QueryRowContext(ctx, query))
		if err != nil {
			return nil, fmt.Errorf("add row: %w", err)
		}
		created = append(created, *row)
	}

	return created, nil
}

// Update replaces the editable fields of an existing row.
func (r *RowRepo) Update(ctx context.Context, row model.EvaluationRow) error {
	const query = `UPDATE rows SET student_name = ?, observations = ?, draft = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, row.StudentName, row.Observations, row.Draft, row.ID)
	if err != nil {
		return fmt.Errorf("update row %d: %w", row.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("row %d not found", row.ID)
	}

	return nil
}

// Delete removes a row by ID.
func (r *RowRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM rows WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete row %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("row %d not found", id)
	}

	return nil
}

// ReplaceAll atomically replaces the whole roster with the given rows.
func (r *RowRepo) ReplaceAll(ctx context.Context, newRows []model.EvaluationRow) ([]model.EvaluationRow, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rows`); err != nil {
		return nil, fmt.Errorf("clear rows: %w", err)
	}

	const query = `INSERT INTO rows (student_name, observations, draft) VALUES (?, ?, ?)
		RETURNING id, student_name, observations, draft, created_at, updated_at`

	inserted := make([]model.EvaluationRow, 0, len(newRows))
	for _, row := range newRows {
		saved, err := scanRow(tx.QueryRowContext(ctx, query, row.StudentName, row.Observations, row.Draft))
		if err != nil {
			return nil, fmt.Errorf("insert row for %q: %w", row.StudentName, err)
		}
		inserted = append(inserted, *saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace: %w", err)
	}

	return inserted, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanRow.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (*model.EvaluationRow, error) {
	var row model.EvaluationRow
	var createdAt, updatedAt string

	err := s.Scan(&row.ID, &row.StudentName, &row.Observations, &row.Draft, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	row.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	row.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &row, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
