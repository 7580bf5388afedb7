package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

const toneKey = "tone"

// Compile-time interface satisfaction check.
var _ driven.PrefStore = (*PrefRepo)(nil)

// PrefRepo is the SQLite implementation of the PrefStore port. Preferences
// share the settings key-value table with the credential record.
type PrefRepo struct {
	db *DB
}

// NewPrefRepo creates a new PrefRepo backed by the given DB.
func NewPrefRepo(db *DB) *PrefRepo {
	return &PrefRepo{db: db}
}

// GetTone returns the stored tone preference, or model.DefaultTone when none
// has been saved or the stored value no longer parses.
func (r *PrefRepo) GetTone(ctx context.Context) (model.Tone, error) {
	const query = `SELECT value FROM settings WHERE key = ?`
	var raw string
	err := r.db.Reader.QueryRowContext(ctx, query, toneKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultTone, nil
	}
	if err != nil {
		return "", fmt.Errorf("get tone: %w", err)
	}

	tone, err := model.ParseTone(raw)
	if err != nil {
		// A stale value from an older build falls back to the default.
		return model.DefaultTone, nil
	}
	return tone, nil
}

// SetTone stores the tone preference, overwriting any previous value.
func (r *PrefRepo) SetTone(ctx context.Context, tone model.Tone) error {
	const query = `INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, toneKey, string(tone)); err != nil {
		return fmt.Errorf("set tone: %w", err)
	}
	return nil
}
