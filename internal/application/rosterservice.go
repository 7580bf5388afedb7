package application

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrNoClient    = errors.New("no language client configured")
	ErrRowNotFound = errors.New("row not found")
)

// csvHeader is the column layout shared by export, template, and import.
var csvHeader = []string{"student_name", "observations", "draft"}

// RosterService orchestrates the evaluation roster: adding rows, CSV
// import/export, tone preference, and draft generation through the current
// language client.
type RosterService struct {
	rows     driven.RowStore
	prefs    driven.PrefStore
	provider *ClientProvider
	logger   *slog.Logger
}

// NewRosterService creates a RosterService with all required dependencies.
func NewRosterService(
	rows driven.RowStore,
	prefs driven.PrefStore,
	provider *ClientProvider,
	logger *slog.Logger,
) *RosterService {
	return &RosterService{
		rows:     rows,
		prefs:    prefs,
		provider: provider,
		logger:   logger,
	}
}

// ClampRowCount bounds the toolbar's row-count input: anything below 1
// (including the zero value produced by unparseable input) becomes 1. The
// toolbar label suggests a cap of 50 but no upper bound is enforced.
func ClampRowCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ListRows returns the whole roster.
func (s *RosterService) ListRows(ctx context.Context) ([]model.EvaluationRow, error) {
	return s.rows.ListAll(ctx)
}

// AddRows appends count blank rows (clamped) and returns them.
func (s *RosterService) AddRows(ctx context.Context, count int) ([]model.EvaluationRow, error) {
	return s.rows.AddEmpty(ctx, ClampRowCount(count))
}

// UpdateRow replaces the editable fields of an existing row.
func (s *RosterService) UpdateRow(ctx context.Context, row model.EvaluationRow) error {
	return s.rows.Update(ctx, row)
}

// DeleteRow removes a row by ID.
func (s *RosterService) DeleteRow(ctx context.Context, id int64) error {
	return s.rows.Delete(ctx, id)
}

// Tone returns the stored tone preference.
func (s *RosterService) Tone(ctx context.Context) (model.Tone, error) {
	return s.prefs.GetTone(ctx)
}

// SetTone stores the tone preference.
func (s *RosterService) SetTone(ctx context.Context, tone model.Tone) error {
	return s.prefs.SetTone(ctx, tone)
}

// GenerateDraft produces evaluation text for the given row using the
// current language client and the stored tone, persists it on the row, and
// returns the updated row. Returns ErrNoClient when no credential has been
// configured and ErrRowNotFound when the row does not exist.
func (s *RosterService) GenerateDraft(ctx context.Context, id int64) (*model.EvaluationRow, error) {
	client := s.provider.Get()
	if client == nil {
		return nil, ErrNoClient
	}

	row, err := s.rows.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrRowNotFound
	}

	tone, err := s.prefs.GetTone(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := client.GenerateDraft(ctx, model.DraftRequest{
		StudentName:  row.StudentName,
		Observations: row.Observations,
		Tone:         tone,
	})
	if err != nil {
		return nil, fmt.Errorf("generate draft for row %d: %w", id, err)
	}

	row.Draft = draft
	if err := s.rows.Update(ctx, *row); err != nil {
		return nil, err
	}

	return row, nil
}

// ExportCSV writes the roster as CSV: header row then one record per row.
func (s *RosterService) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.rows.ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.StudentName, row.Observations, row.Draft}); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// TemplateCSV writes an import template: the header plus one example row.
func (s *RosterService) TemplateCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		csvHeader,
		{"Kim Cheolsu", "participates actively in science class", ""},
	}
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv template: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ImportCSV parses an uploaded roster CSV and replaces the current roster
// with its contents. The first record is skipped when it matches the
// template header. Column count is validated; cell contents are not.
func (s *RosterService) ImportCSV(ctx context.Context, r io.Reader) ([]model.EvaluationRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && records[0][0] == csvHeader[0] {
		records = records[1:]
	}

	rows := make([]model.EvaluationRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, model.EvaluationRow{
			StudentName:  record[0],
			Observations: record[1],
			Draft:        record[2],
		})
	}

	inserted, err := s.rows.ReplaceAll(ctx, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("roster imported", "rows", len(inserted))
	return inserted, nil
}
