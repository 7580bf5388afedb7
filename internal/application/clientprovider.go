// Package application contains use-case orchestration services.
package application

import (
	"sync"

	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// ClientProvider enables runtime hot-swap of the generative-language client.
// It holds a mutex-protected reference to the current driven.LanguageClient,
// allowing a credential saved via the settings dialog to take effect without
// restarting the application.
type ClientProvider struct {
	mu     sync.RWMutex
	client driven.LanguageClient
}

// NewClientProvider creates a provider with the given initial client.
// client may be nil if no credential is available at startup.
func NewClientProvider(client driven.LanguageClient) *ClientProvider {
	return &ClientProvider{client: client}
}

// Get returns the current client. Callers should check for nil if the
// provider was created without an initial credential.
func (p *ClientProvider) Get() driven.LanguageClient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Replace swaps the current client with a new one. The next caller of Get()
// will receive the new client.
func (p *ClientProvider) Replace(client driven.LanguageClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
}

// HasClient returns true if a non-nil client is currently held.
func (p *ClientProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
