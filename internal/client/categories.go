package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pengunin/blog-frontend/internal/models"
)

// ListCategories — GET /categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "client.categories.ListCategories"

	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CategoryByID — GET /categories/{id}.
func (c *Client) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	const op = "client.categories.CategoryByID"

	var out models.Category
	if err := c.do(ctx, http.MethodGet, "/categories/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// CreateCategory — POST /categories.
func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	const op = "client.categories.CreateCategory"

	var out models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UpdateCategory — PUT /categories/{id}.
func (c *Client) UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error) {
	const op = "client.categories.UpdateCategory"

	var out models.Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// DeleteCategory — DELETE /categories/{id}.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	const op = "client.categories.DeleteCategory"

	if err := c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
