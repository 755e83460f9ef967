// package credentials owns the single persisted bearer token.
//
// Exactly one durable value exists, keyed by a fixed name. A missing token is
// not an error; storage I/O failure is reported as
// [shared.ErrStorageUnavailable] so callers can tell the two apart.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tdx/internal/shared"
)

// tokenName is the fixed key the bearer token is stored under.
const tokenName = "token"

// Store is the credential store contract. Token returns the empty string,
// not an error, when no token has been saved.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// SQLiteStore persists the token in the credentials table.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a [SQLiteStore] with the given database connection
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Token reads the persisted bearer token. A missing row yields ("", nil).
func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	query := `SELECT value FROM credentials WHERE name = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, tokenName).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}

	return value, nil
}

// SetToken persists a token, overwriting any existing value.
func (s *SQLiteStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidArgument)
	}

	query := `
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, tokenName, token, time.Now()); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}

	return nil
}

// ClearToken removes the persisted token. Clearing an absent token is a no-op.
func (s *SQLiteStore) ClearToken(ctx context.Context) error {
	query := `DELETE FROM credentials WHERE name = ?`

	if _, err := s.db.ExecContext(ctx, query, tokenName); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}

	return nil
}

// Unavailable returns a [Store] whose every operation fails with
// [shared.ErrStorageUnavailable]. Used when the credential database could not
// be opened, so the rest of the client degrades instead of crashing.
func Unavailable() Store {
	return unavailableStore{}
}

type unavailableStore struct{}

func (unavailableStore) Token(context.Context) (string, error) {
	return "", shared.ErrStorageUnavailable
}

func (unavailableStore) SetToken(context.Context, string) error {
	return shared.ErrStorageUnavailable
}

func (unavailableStore) ClearToken(context.Context) error {
	return shared.ErrStorageUnavailable
}
