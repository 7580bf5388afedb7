package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// ErrTestInFlight is returned by Test when a connectivity probe is already
// running. At most one probe may be in flight at a time.
var ErrTestInFlight = errors.New("a connectivity test is already in progress")

// User-facing status messages for the settings dialog.
const (
	MsgEnterKey   = "Enter an API key first."
	MsgTesting    = "Testing connection..."
	MsgTestOK     = "Connection successful."
	MsgTestFailed = "Connection failed. Check the key and try again."
	MsgSaved      = "API key saved."
	MsgSaveFailed = "Could not save the API key."
)

// ClientFactory constructs a LanguageClient bound to the given API key.
// Injected so tests can substitute a fake without touching the network.
type ClientFactory func(ctx context.Context, apiKey string) (driven.LanguageClient, error)

// StatusSnapshot is the externally visible state of the settings flow.
type StatusSnapshot struct {
	Status  model.ConnectionStatus
	Message string
}

// SettingsService drives the credential settings flow: load the stored key
// at startup, test a candidate key against the service, and save a key
// (persist obfuscated + hot-swap the live client).
//
// State machine: idle -> testing -> {success, error}, with error reachable
// directly from idle on validation failure and idle reachable from anywhere
// via Reset (input change / dialog reopen).
type SettingsService struct {
	creds      driven.CredentialStore
	provider   *ClientProvider
	factory    ClientFactory
	closeDelay time.Duration
	onSaved    func()
	logger     *slog.Logger

	mu         sync.Mutex
	status     model.ConnectionStatus
	message    string
	closeTimer *time.Timer
}

// NewSettingsService creates a SettingsService. onSaved, when non-nil, is
// invoked once per successful save, closeDelay after the save completes
// (the dialog-close callback). logger must be non-nil.
func NewSettingsService(
	creds driven.CredentialStore,
	provider *ClientProvider,
	factory ClientFactory,
	closeDelay time.Duration,
	onSaved func(),
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		creds:      creds,
		provider:   provider,
		factory:    factory,
		closeDelay: closeDelay,
		onSaved:    onSaved,
		logger:     logger,
		status:     model.ConnectionIdle,
	}
}

// Load returns the stored plaintext credential for populating the dialog
// input. A malformed record is reported as an error so callers can tell it
// apart from "nothing stored"; state is not affected.
func (s *SettingsService) Load(ctx context.Context) (string, error) {
	key, err := s.creds.Load(ctx)
	if err != nil {
		if errors.Is(err, driven.ErrCredentialMalformed) {
			s.logger.Warn("stored credential is malformed, treating as absent", "error", err)
		}
		return "", err
	}
	return key, nil
}

// Status returns the current state and its display message.
func (s *SettingsService) Status() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatusSnapshot{Status: s.status, Message: s.message}
}

// Reset returns the flow to idle with a cleared message. Called when the
// dialog input changes or the dialog is reopened.
func (s *SettingsService) Reset() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = model.ConnectionIdle
	s.message = ""
	return StatusSnapshot{Status: s.status, Message: s.message}
}

// Test probes the service with the candidate key. An empty or
// whitespace-only key fails validation without any network call. While a
// probe is running the state is testing and further Test calls return
// ErrTestInFlight. The probe has no timeout of its own; it runs as long as
// ctx allows.
func (s *SettingsService) Test(ctx context.Context, key string) (StatusSnapshot, error) {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	if s.status == model.ConnectionTesting {
		snap := StatusSnapshot{Status: s.status, Message: s.message}
		s.mu.Unlock()
		return snap, ErrTestInFlight
	}
	if key == "" {
		s.status = model.ConnectionError
		s.message = MsgEnterKey
		snap := StatusSnapshot{Status: s.status, Message: s.message}
		s.mu.Unlock()
		return snap, nil
	}
	s.status = model.ConnectionTesting
	s.message = MsgTesting
	s.mu.Unlock()

	err := s.probe(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Info("connectivity test failed", "error", err)
		s.status = model.ConnectionError
		s.message = MsgTestFailed
	} else {
		s.status = model.ConnectionSuccess
		s.message = MsgTestOK
	}
	return StatusSnapshot{Status: s.status, Message: s.message}, nil
}

// probe builds a throwaway client for the candidate key and runs one
// verification round trip against the service.
func (s *SettingsService) probe(ctx context.Context, key string) error {
	client, err := s.factory(ctx, key)
	if err != nil {
		return err
	}
	return client.Verify(ctx)
}

// Save validates, persists, and activates the key: the credential store
// writes the obfuscated record, the provider receives a freshly built
// client, and the saved-callback timer is armed. An empty key fails
// validation with no persistence.
func (s *SettingsService) Save(ctx context.Context, key string) (StatusSnapshot, error) {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if key == "" {
		s.status = model.ConnectionError
		s.message = MsgEnterKey
		return StatusSnapshot{Status: s.status, Message: s.message}, nil
	}

	if err := s.creds.Save(ctx, key); err != nil {
		s.logger.Error("failed to persist credential", "error", err)
		s.status = model.ConnectionError
		s.message = MsgSaveFailed
		return StatusSnapshot{Status: s.status, Message: s.message}, err
	}

	client, err := s.factory(ctx, key)
	if err != nil {
		s.logger.Error("failed to build client for saved key", "error", err)
		s.status = model.ConnectionError
		s.message = MsgSaveFailed
		return StatusSnapshot{Status: s.status, Message: s.message}, err
	}
	s.provider.Replace(client)

	s.status = model.ConnectionSuccess
	s.message = MsgSaved

	if s.onSaved != nil {
		if s.closeTimer != nil {
			s.closeTimer.Stop()
		}
		s.closeTimer = time.AfterFunc(s.closeDelay, s.onSaved)
	}

	return StatusSnapshot{Status: s.status, Message: s.message}, nil
}
