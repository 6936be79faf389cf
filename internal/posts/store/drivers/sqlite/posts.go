package sqlite

import (
	"context"

	"github.com/quillworks/quill/internal/posts/domain"
	"github.com/quillworks/quill/internal/posts/store"
)

type postsRepo struct {
	db dbtx
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, author_id, image, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.AuthorID, p.Image, p.Content, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, author_id, image, content, created_at, updated_at
		FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

func (r *postsRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, author_id, image, content, created_at, updated_at
		FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.AuthorID, &p.Image, &p.Content,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postsRepo) UpdatePost(ctx context.Context, p domain.Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, image = ?, content = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Image, p.Content, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *postsRepo) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.AuthorID, &p.Image, &p.Content,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}
