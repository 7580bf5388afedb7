package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// credentialKey is the fixed settings-table key holding the obfuscated
// API credential. One record, overwritten in place on every save.
const credentialKey = "genai_api_key_enc"

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// Values are obfuscated with a repeating-key XOR transform against the
// configured salt and base64-encoded before write. This keeps the credential
// out of casual inspection of the database file; it is not encryption, and
// the salt is not a secret.
type CredentialRepo struct {
	db   *DB
	salt []byte
}

// NewCredentialRepo creates a CredentialRepo using the given obfuscation
// salt. The salt is injected rather than held as package state so tests can
// supply their own; it must be non-empty.
func NewCredentialRepo(db *DB, salt string) *CredentialRepo {
	return &CredentialRepo{db: db, salt: []byte(salt)}
}

// Save encodes the plaintext credential and stores it under the fixed
// settings key, unconditionally overwriting any previous record.
func (r *CredentialRepo) Save(ctx context.Context, plaintext string) error {
	encoded, err := r.encode(plaintext)
	if err != nil {
		return err
	}

	const query = `INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, credentialKey, encoded); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load retrieves and decodes the stored credential. Returns ("", nil) when
// no credential has been saved, and a driven.ErrCredentialMalformed-wrapped
// error when the stored record cannot be decoded.
func (r *CredentialRepo) Load(ctx context.Context) (string, error) {
	const query = `SELECT value FROM settings WHERE key = ?`
	var encoded string
	err := r.db.Reader.QueryRowContext(ctx, query, credentialKey).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}

	plaintext, err := r.decode(encoded)
	if err != nil {
		return "", fmt.Errorf("decode credential: %w", err)
	}
	return plaintext, nil
}

// encode applies the repeating-key XOR transform over the plaintext's raw
// UTF-8 bytes and base64-encodes the result.
func (r *CredentialRepo) encode(plaintext string) (string, error) {
	if len(r.salt) == 0 {
		return "", errors.New("obfuscation salt not configured")
	}
	return base64.StdEncoding.EncodeToString(r.xor([]byte(plaintext))), nil
}

// decode reverses encode. XOR with the same salt stream is its own inverse.
func (r *CredentialRepo) decode(encoded string) (string, error) {
	if len(r.salt) == 0 {
		return "", errors.New("obfuscation salt not configured")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %s", driven.ErrCredentialMalformed, err)
	}
	return string(r.xor(data)), nil
}

// xor applies the repeating salt stream: out[i] = in[i] ^ salt[i % len(salt)].
func (r *CredentialRepo) xor(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ r.salt[i%len(r.salt)]
	}
	return out
}
