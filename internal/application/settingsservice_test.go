package application_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/evalpanel/internal/application"
	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// newSettingsService wires a SettingsService around the given client mock.
// The factory hands out the same mock for every key.
func newSettingsService(t *testing.T, client *mockLanguageClient, creds *mockCredentialStore, onSaved func()) (*application.SettingsService, *application.ClientProvider) {
	t.Helper()

	provider := application.NewClientProvider(nil)
	factory := func(_ context.Context, apiKey string) (driven.LanguageClient, error) {
		if apiKey == "" {
			return nil, errors.New("api key is required")
		}
		return client, nil
	}

	svc := application.NewSettingsService(creds, provider, factory, 10*time.Millisecond, onSaved, slog.Default())
	return svc, provider
}

func TestSettingsService_InitialStatusIdle(t *testing.T) {
	svc, _ := newSettingsService(t, &mockLanguageClient{}, &mockCredentialStore{}, nil)

	snap := svc.Status()
	assert.Equal(t, model.ConnectionIdle, snap.Status)
	assert.Empty(t, snap.Message)
}

func TestSettingsService_TestEmptyKeySkipsProbe(t *testing.T) {
	client := &mockLanguageClient{}
	svc, _ := newSettingsService(t, client, &mockCredentialStore{}, nil)

	for _, key := range []string{"", "   ", "\t\n"} {
		snap, err := svc.Test(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionError, snap.Status)
		assert.Equal(t, application.MsgEnterKey, snap.Message)
	}

	assert.Zero(t, client.calls(), "whitespace-only input must never reach the verifier")
}

func TestSettingsService_TestSuccess(t *testing.T) {
	client := &mockLanguageClient{}
	svc, _ := newSettingsService(t, client, &mockCredentialStore{}, nil)

	snap, err := svc.Test(context.Background(), "valid-key")
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionSuccess, snap.Status)
	assert.Equal(t, application.MsgTestOK, snap.Message)
	assert.Equal(t, 1, client.calls())
}

func TestSettingsService_TestFailure(t *testing.T) {
	client := &mockLanguageClient{verifyErr: errors.New("401 unauthorized")}
	svc, _ := newSettingsService(t, client, &mockCredentialStore{}, nil)

	snap, err := svc.Test(context.Background(), "bad-key")
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionError, snap.Status)
	assert.Equal(t, application.MsgTestFailed, snap.Message)
}

func TestSettingsService_SecondTestRejectedWhileInFlight(t *testing.T) {
	client := &mockLanguageClient{
		verifyStarted: make(chan struct{}),
		blockVerify:   make(chan struct{}),
	}
	svc, _ := newSettingsService(t, client, &mockCredentialStore{}, nil)

	firstDone := make(chan application.StatusSnapshot, 1)
	go func() {
		snap, _ := svc.Test(context.Background(), "slow-key")
		firstDone <- snap
	}()

	<-client.verifyStarted
	assert.Equal(t, model.ConnectionTesting, svc.Status().Status)

	_, err := svc.Test(context.Background(), "slow-key")
	assert.ErrorIs(t, err, application.ErrTestInFlight)
	assert.Equal(t, 1, client.calls(), "second test must not start a second probe")

	close(client.blockVerify)
	snap := <-firstDone
	assert.Equal(t, model.ConnectionSuccess, snap.Status)
}

func TestSettingsService_ResetClearsState(t *testing.T) {
	svc, _ := newSettingsService(t, &mockLanguageClient{}, &mockCredentialStore{}, nil)

	_, err := svc.Test(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, model.ConnectionError, svc.Status().Status)

	snap := svc.Reset()
	assert.Equal(t, model.ConnectionIdle, snap.Status)
	assert.Empty(t, snap.Message)
}

func TestSettingsService_SaveEmptyKeyNoPersist(t *testing.T) {
	creds := &mockCredentialStore{}
	svc, provider := newSettingsService(t, &mockLanguageClient{}, creds, nil)

	snap, err := svc.Save(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionError, snap.Status)
	assert.Zero(t, creds.saveCalls)
	assert.False(t, provider.HasClient())
}

func TestSettingsService_SavePersistsAndSwapsClient(t *testing.T) {
	client := &mockLanguageClient{}
	creds := &mockCredentialStore{}
	svc, provider := newSettingsService(t, client, creds, nil)

	snap, err := svc.Save(context.Background(), "  my-key  ")
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionSuccess, snap.Status)
	assert.Equal(t, application.MsgSaved, snap.Message)

	assert.Equal(t, "my-key", creds.stored, "key is trimmed before persisting")
	require.True(t, provider.HasClient())
	assert.Same(t, client, provider.Get())
}

func TestSettingsService_SaveOverwrites(t *testing.T) {
	creds := &mockCredentialStore{}
	svc, _ := newSettingsService(t, &mockLanguageClient{}, creds, nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, "first-key")
	require.NoError(t, err)
	_, err = svc.Save(ctx, "second-key")
	require.NoError(t, err)

	got, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second-key", got)
}

func TestSettingsService_SaveStoreErrorSurfaces(t *testing.T) {
	creds := &mockCredentialStore{saveErr: errors.New("disk full")}
	svc, provider := newSettingsService(t, &mockLanguageClient{}, creds, nil)

	snap, err := svc.Save(context.Background(), "my-key")
	require.Error(t, err)
	assert.Equal(t, model.ConnectionError, snap.Status)
	assert.Equal(t, application.MsgSaveFailed, snap.Message)
	assert.False(t, provider.HasClient())
}

func TestSettingsService_SaveFiresCloseCallbackOnce(t *testing.T) {
	var closed atomic.Int32
	svc, _ := newSettingsService(t, &mockLanguageClient{}, &mockCredentialStore{}, func() {
		closed.Add(1)
	})

	_, err := svc.Save(context.Background(), "my-key")
	require.NoError(t, err)

	assert.Equal(t, int32(0), closed.Load(), "close callback must wait for the delay")

	assert.Eventually(t, func() bool { return closed.Load() == 1 },
		500*time.Millisecond, 5*time.Millisecond)

	// No further invocations after the timer fires.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), closed.Load())
}

func TestSettingsService_LoadMalformedDistinguishedFromAbsent(t *testing.T) {
	creds := &mockCredentialStore{loadErr: driven.ErrCredentialMalformed}
	svc, _ := newSettingsService(t, &mockLanguageClient{}, creds, nil)

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, driven.ErrCredentialMalformed)

	creds.loadErr = nil
	got, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
