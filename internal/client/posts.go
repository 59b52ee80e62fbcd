package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pengunin/blog-frontend/internal/models"
)

func listQuery(p models.ListParams) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}

	return q
}

// ListPosts — GET /posts?page=&size=&sort=.
func (c *Client) ListPosts(ctx context.Context, p models.ListParams) ([]models.Post, error) {
	const op = "client.posts.ListPosts"

	var out []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts", listQuery(p), nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// PostsByCategory — GET /posts/by-category?categoryId=.
func (c *Client) PostsByCategory(ctx context.Context, categoryID string, p models.ListParams) ([]models.Post, error) {
	const op = "client.posts.PostsByCategory"

	q := listQuery(p)
	q.Set("categoryId", categoryID)

	var out []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts/by-category", q, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// PostsByTag — GET /posts/by-tag?tagId=.
func (c *Client) PostsByTag(ctx context.Context, tagID string, p models.ListParams) ([]models.Post, error) {
	const op = "client.posts.PostsByTag"

	q := listQuery(p)
	q.Set("tagId", tagID)

	var out []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts/by-tag", q, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// PostBySlug — GET /posts/s/{slug}.
func (c *Client) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	const op = "client.posts.PostBySlug"

	var out models.Post
	if err := c.do(ctx, http.MethodGet, "/posts/s/"+url.PathEscape(slug), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// CreatePost — POST /posts.
func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	const op = "client.posts.CreatePost"

	var out models.Post
	if err := c.do(ctx, http.MethodPost, "/posts", nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UpdatePost — PUT /posts/{id}.
func (c *Client) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	const op = "client.posts.UpdatePost"

	var out models.Post
	if err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// DeletePost — DELETE /posts/{id}.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	const op = "client.posts.DeletePost"

	if err := c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
