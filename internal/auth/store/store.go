package store

import (
	"context"
	"errors"

	"github.com/quillworks/quill/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to handle
	// multi-step writes such as login's invalidate-then-issue.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A taken email returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and duplicate checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByToken returns the record for a presented opaque token.
	GetRefreshTokenByToken(ctx context.Context, token string) (domain.RefreshToken, error)

	// DeleteRefreshToken removes a record by its opaque token. Returns
	// ErrNotFound when nothing was deleted, which is how exactly one of two
	// racing refreshes on the same stale token wins.
	DeleteRefreshToken(ctx context.Context, token string) error

	// DeleteAllUserRefreshTokens bulk-invalidates every session for a user.
	// Login uses this to enforce the single-active-session policy.
	DeleteAllUserRefreshTokens(ctx context.Context, userID string) error

	// CountUserRefreshTokens returns the number of live records for a user.
	CountUserRefreshTokens(ctx context.Context, userID string) (int, error)
}
