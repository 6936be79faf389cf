package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListPosts returns all posts. Public, no credentials required.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	err := c.doJSON(ctx, http.MethodGet, c.APIURL+"/v1/posts", nil, &out)
	return out, err
}

// GetPost returns a single post by id.
func (c *Client) GetPost(ctx context.Context, id string) (Post, error) {
	var out Post
	err := c.doJSON(ctx, http.MethodGet, c.APIURL+"/v1/posts/"+url.PathEscape(id), nil, &out)
	return out, err
}

// CreatePost creates a post owned by the authenticated user.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	var out Post
	err := c.doJSON(ctx, http.MethodPost, c.APIURL+"/v1/posts", in, &out)
	return out, err
}

// UpdatePost replaces the title, image, and content of an owned post.
func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (Post, error) {
	var out Post
	err := c.doJSON(ctx, http.MethodPut, c.APIURL+"/v1/posts/"+url.PathEscape(id), in, &out)
	return out, err
}

// DeletePost removes an owned post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.APIURL+"/v1/posts/"+url.PathEscape(id), nil, nil)
}
