package httphandler_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	httphandler "github.com/ericfisherdev/evalpanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/evalpanel/internal/application"
	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// stubLanguageClient answers every call with fixed results.
type stubLanguageClient struct {
	verifyErr error
	draft     string
	draftErr  error
}

func (s *stubLanguageClient) Verify(context.Context) error {
	return s.verifyErr
}

func (s *stubLanguageClient) GenerateDraft(context.Context, model.DraftRequest) (string, error) {
	return s.draft, s.draftErr
}

// memCredentialStore keeps the credential in memory.
type memCredentialStore struct {
	stored  string
	loadErr error
}

func (m *memCredentialStore) Save(_ context.Context, plaintext string) error {
	m.stored = plaintext
	return nil
}

func (m *memCredentialStore) Load(context.Context) (string, error) {
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

func (m *memRowStore) ListAll(context.Context) ([]model.EvaluationRow, error) {
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

// memPrefStore holds a tone in memory.
type memPrefStore struct {
	tone model.Tone
}

func (m *memPrefStore) GetTone(context.Context) (model.Tone, error) {
	if m.tone == "" {
		return model.DefaultTone, nil
	}
	return m.tone, nil
}

func (m *memPrefStore) SetTone(_ context.Context, tone model.Tone) error {
	m.tone = tone
	return nil
}

// testEnv bundles the handler's mux with the backing stores so tests can
// seed state and inspect side effects.
type testEnv struct {
	mux    *http.ServeMux
	creds  *memCredentialStore
	rows   *memRowStore
	prefs  *memPrefStore
	client *stubLanguageClient
}

// newTestEnv wires the full API onto a fresh mux with in-memory stores. When
// withClient is false the provider starts empty, as if no key were configured.
func newTestEnv(t *testing.T, withClient bool) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		creds:  &memCredentialStore{},
		rows:   &memRowStore{},
		prefs:  &memPrefStore{},
		client: &stubLanguageClient{draft: "generated draft"},
	}

	var initial driven.LanguageClient
	if withClient {
		initial = env.client
	}
	provider := application.NewClientProvider(initial)

	factory := func(context.Context, string) (driven.LanguageClient, error) {
		return env.client, nil
	}

	settings := application.NewSettingsService(env.creds, provider, factory, time.Millisecond, nil, logger)
	roster := application.NewRosterService(env.rows, env.prefs, provider, logger)

	env.mux = http.NewServeMux()
	httphandler.RegisterAPIRoutes(env.mux, httphandler.NewHandler(settings, roster, logger))
	return env
}
