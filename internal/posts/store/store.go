package store

import (
	"context"
	"errors"

	"github.com/quillworks/quill/internal/posts/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface for the posts service.
type Store interface {
	Posts() Posts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Posts interface {
	// CreatePost inserts a new post (id provided by the app via ULID).
	CreatePost(ctx context.Context, p domain.Post) error

	// GetPostByID returns a post by id.
	GetPostByID(ctx context.Context, id string) (domain.Post, error)

	// ListPosts returns all posts, newest first.
	ListPosts(ctx context.Context) ([]domain.Post, error)

	// UpdatePost rewrites title, image, content and updated_at for the
	// post with p.ID. Returns ErrNotFound when no row matched.
	UpdatePost(ctx context.Context, p domain.Post) error

	// DeletePost removes a post by id. Returns ErrNotFound when no row
	// matched.
	DeletePost(ctx context.Context, id string) error
}
