package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillworks/quill/internal/posts/domain"
	"github.com/quillworks/quill/internal/posts/service"
	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/slogx"
)

type ListPostsHandler struct {
	PostsService *service.PostsService
}

// ServeHTTP handles GET /v1/posts. Public, no authn.
func (h *ListPostsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	posts, err := h.PostsService.List(ctx)
	if err != nil {
		l.Error("failed to list posts", "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	out := make([]authsdk.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPost(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type GetPostHandler struct {
	PostsService *service.PostsService
}

// ServeHTTP handles GET /v1/posts/{id}. Public, no authn.
func (h *GetPostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	p, err := h.PostsService.Get(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		l.Error("failed to load post", "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPost(p))
}

type CreatePostHandler struct {
	PostsService *service.PostsService
}

// ServeHTTP handles POST /v1/posts. The author is forced to the
// authenticated identity regardless of the body.
func (h *CreatePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok || id.UserID == "" {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	var in authsdk.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		authsdk.NewValidationError(map[string]string{
			"body": "must be valid JSON",
		}).WriteError(w)
		return
	}
	if errs := in.Validate(); errs != nil {
		authsdk.NewValidationError(errs).WriteError(w)
		return
	}

	p, err := h.PostsService.Create(ctx, id.UserID, in.Title, in.Image, in.Content)
	if err != nil {
		l.Error("failed to create post", "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toPost(p))
}

type UpdatePostHandler struct {
	PostsService *service.PostsService
}

// ServeHTTP handles PUT /v1/posts/{id}. The guard has already loaded the
// post and verified ownership.
func (h *UpdatePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	post, ok := postFromContext(ctx)
	if !ok {
		authsdk.ErrNotFound.WriteError(w)
		return
	}

	var in authsdk.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		authsdk.NewValidationError(map[string]string{
			"body": "must be valid JSON",
		}).WriteError(w)
		return
	}
	if errs := in.Validate(); errs != nil {
		authsdk.NewValidationError(errs).WriteError(w)
		return
	}

	updated, err := h.PostsService.Update(ctx, post.ID, in.Title, in.Image, in.Content)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			// Deleted between the guard's load and now.
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		l.Error("failed to update post", "post_id", post.ID, "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toPost(updated))
}

type DeletePostHandler struct {
	PostsService *service.PostsService
}

// ServeHTTP handles DELETE /v1/posts/{id}.
func (h *DeletePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	post, ok := postFromContext(ctx)
	if !ok {
		authsdk.ErrNotFound.WriteError(w)
		return
	}

	if err := h.PostsService.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		l.Error("failed to delete post", "post_id", post.ID, "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "post deleted",
	})
}

func toPost(p domain.Post) authsdk.Post {
	return authsdk.Post{
		ID:        p.ID,
		Title:     p.Title,
		AuthorID:  p.AuthorID,
		Image:     p.Image,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
