package driven

import (
	"context"

	"github.com/ericfisherdev/evalpanel/internal/domain/model"
)

// PrefStore defines the driven port for small persisted UI preferences.
type PrefStore interface {
	// GetTone returns the stored tone preference, or model.DefaultTone if
	// none has been saved.
	GetTone(ctx context.Context) (model.Tone, error)

	// SetTone stores the tone preference, overwriting any previous value.
	SetTone(ctx context.Context, tone model.Tone) error
}
