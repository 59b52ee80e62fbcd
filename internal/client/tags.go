package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pengunin/blog-frontend/internal/models"
)

// ListTags — GET /tags.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "client.tags.ListTags"

	var out []models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// TagByID — GET /tags/{id}.
func (c *Client) TagByID(ctx context.Context, id string) (*models.Tag, error) {
	const op = "client.tags.TagByID"

	var out models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// CreateTag — POST /tags.
func (c *Client) CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	const op = "client.tags.CreateTag"

	var out models.Tag
	if err := c.do(ctx, http.MethodPost, "/tags", nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UpdateTag — PUT /tags/{id}.
func (c *Client) UpdateTag(ctx context.Context, id string, in models.TagInput) (*models.Tag, error) {
	const op = "client.tags.UpdateTag"

	var out models.Tag
	if err := c.do(ctx, http.MethodPut, "/tags/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// DeleteTag — DELETE /tags/{id}.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	const op = "client.tags.DeleteTag"

	if err := c.do(ctx, http.MethodDelete, "/tags/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
