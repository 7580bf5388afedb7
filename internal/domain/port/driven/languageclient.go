package driven

import (
	"context"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
)

// LanguageClient defines the driven port for the external generative-language
// service. One client instance is bound to one API credential; updating the
// credential means constructing a new client and swapping it into the
// provider.
type LanguageClient interface {
	// Verify performs exactly one outbound probe against the service and
	// returns nil if the service accepts the client's credential. Auth
	// rejection and network failure are deliberately not distinguished.
	// No timeout is imposed beyond the caller's context.
	Verify(ctx context.Context) error

	// GenerateDraft produces evaluation text for one roster row.
	GenerateDraft(ctx context.Context, req model.DraftRequest) (string, error)
}
