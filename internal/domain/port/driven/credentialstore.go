package driven

import (
	"context"
	"errors"
)

// ErrCredentialMalformed is returned by CredentialStore.Load when a persisted
// record exists but cannot be decoded. Callers can distinguish "nothing
// stored" (empty string, nil error) from "stored data is corrupt".
var ErrCredentialMalformed = errors.New("stored credential is malformed")

// CredentialStore defines the driven port for locally persisted API
// credentials. The adapter obfuscates the value before write and reverses
// the transform after read; this interface operates on plaintext at the
// domain boundary.
//
// The obfuscation is a fixed-salt reversible transform, not encryption. It
// exists only to keep the credential out of casual plaintext inspection of
// the local database file.
type CredentialStore interface {
	// Save encodes and stores the plaintext credential, unconditionally
	// overwriting any previous record.
	Save(ctx context.Context, plaintext string) error

	// Load retrieves and decodes the stored credential.
	// Returns ("", nil) if no credential has been saved.
	// Returns ErrCredentialMalformed (wrapped) if the record cannot be decoded.
	Load(ctx context.Context) (string, error)
}
