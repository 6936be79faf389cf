package http

import (
	"context"

	"github.com/quillworks/quill/internal/posts/domain"
)

type ctxKey string

const ctxKeyPost ctxKey = "post"

// contextWithPost attaches the post loaded by the authorization guard so
// the handler doesn't fetch it twice.
func contextWithPost(ctx context.Context, p domain.Post) context.Context {
	return context.WithValue(ctx, ctxKeyPost, p)
}

func postFromContext(ctx context.Context) (domain.Post, bool) {
	p, ok := ctx.Value(ctxKeyPost).(domain.Post)
	return p, ok
}
