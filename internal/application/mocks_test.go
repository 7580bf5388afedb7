package application_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
)

// mockLanguageClient is a controllable LanguageClient. When blockVerify is
// non-nil, Verify waits on it before returning, which lets tests observe the
// testing state from outside.
type mockLanguageClient struct {
	mu            sync.Mutex
	verifyErr     error
	verifyCalls   int
	draft         string
	draftErr      error
	lastDraftReq  model.DraftRequest
	verifyStarted chan struct{}
	blockVerify   chan struct{}
}

func (m *mockLanguageClient) Verify(ctx context.Context) error {
	m.mu.Lock()
	m.verifyCalls++
	started := m.verifyStarted
	block := m.blockVerify
	err := m.verifyErr
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *mockLanguageClient) GenerateDraft(_ context.Context, req model.DraftRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDraftReq = req
	return m.draft, m.draftErr
}

func (m *mockLanguageClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifyCalls
}

// mockCredentialStore records saves in memory.
type mockCredentialStore struct {
	stored    string
	saveCalls int
	saveErr   error
	loadErr   error
}

func (m *mockCredentialStore) Save(_ context.Context, plaintext string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	m.stored = plaintext
	return nil
}

func (m *mockCredentialStore) Load(_ context.Context) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.stored, nil
}

// memRowStore is an in-memory RowStore.
type memRowStore struct {
	nextID int64
	rows   []model.EvaluationRow
}

func (m *memRowStore) ListAll(_ context.Context) ([]model.EvaluationRow, error) {
	out := make([]model.EvaluationRow, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memRowStore) Get(_ context.Context, id int64) (*model.EvaluationRow, error) {
	for _, row := range m.rows {
		if row.ID == id {
			r := row
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memRowStore) AddEmpty(_ context.Context, n int) ([]model.EvaluationRow, error) {
	created := make([]model.EvaluationRow, 0, n)
	for range n {
		m.nextID++
		row := model.EvaluationRow{ID: m.nextID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		m.rows = append(m.rows, row)
		created = append(created, row)
	}
	return created, nil
}

func (m *memRowStore) Update(_ context.Context, row model.EvaluationRow) error {
	for i := range m.rows {
		if m.rows[i].ID == row.ID {
			m.rows[i].StudentName = row.StudentName
			m.rows[i].Observations = row.Observations
			m.rows[i].Draft = row.Draft
			return nil
		}
	}
	return fmt.Errorf("row %d not found", row.ID)
}

func (m *memRowStore) Delete(_ context.Context, id int64) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memRowStore) ReplaceAll(_ context.Context, rows []model.EvaluationRow) ([]model.EvaluationRow, error) {
	m.rows = nil
	m.nextID = 0
	inserted := make([]model.EvaluationRow, 0, len(rows))
	for _, row := range rows {
		m.nextID++
		row.ID = m.nextID
		m.rows = append(m.rows, row)
		inserted = append(inserted, row)
	}
	return inserted, nil
}

// mockPrefStore holds a tone in memory.
type mockPrefStore struct {
	tone model.Tone
}

func (m *mockPrefStore) GetTone(_ context.Context) (model.Tone, error) {
	if m.tone == "" {
		return model.DefaultTone, nil
	}
	return m.tone, nil
}

func (m *mockPrefStore) SetTone(_ context.Context, tone model.Tone) error {
	m.tone = tone
	return nil
}
