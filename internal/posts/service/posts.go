package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quillworks/quill/internal/posts/domain"
	"github.com/quillworks/quill/internal/posts/store"
	"github.com/quillworks/quill/pkg/idx"
)

var ErrPostNotFound = errors.New("post_not_found")

type PostsService struct {
	Store store.Store
}

// Create inserts a new post. The author is always the authenticated caller,
// never anything from the request body.
func (s *PostsService) Create(
	ctx context.Context,
	authorID, title, image, content string,
) (domain.Post, error) {
	now := time.Now().UTC()

	p := domain.Post{
		ID:        idx.New().String(),
		Title:     strings.TrimSpace(title),
		AuthorID:  authorID,
		Image:     strings.TrimSpace(image),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Posts().CreatePost(ctx, p); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

// Get returns a post by id.
func (s *PostsService) Get(ctx context.Context, id string) (domain.Post, error) {
	p, err := s.Store.Posts().GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return p, nil
}

// List returns all posts, newest first.
func (s *PostsService) List(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx)
}

// Update rewrites a post's title, image and content. CreatedAt and the
// author never change.
func (s *PostsService) Update(
	ctx context.Context,
	id, title, image, content string,
) (domain.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	p.Title = strings.TrimSpace(title)
	p.Image = strings.TrimSpace(image)
	p.Content = content
	p.UpdatedAt = time.Now().UTC()

	if err := s.Store.Posts().UpdatePost(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return p, nil
}

// Delete removes a post by id.
func (s *PostsService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Posts().DeletePost(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}
