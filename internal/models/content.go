// Модели контента зеркалят REST-представление бэкенда блога.
// Rich-text содержимое постов — непрозрачные JSON-узлы редактора:
// фронт передаёт их как есть и внутрь не заглядывает.
package models

import "encoding/json"

// Category — рубрика поста.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tag — метка поста.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Post — пост блога в представлении бэкенда.
type Post struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Slug     string            `json:"slug"`
	Status   string            `json:"status"` // DRAFT | PUBLISHED
	Category *Category         `json:"category,omitempty"`
	Tags     []Tag             `json:"tags"`
	Contents []json.RawMessage `json:"contents,omitempty"`
}

// PostInput — тело POST/PUT /posts: рубрика и метки по идентификаторам.
type PostInput struct {
	Title      string            `json:"title"`
	Status     string            `json:"status"`
	CategoryID string            `json:"categoryId,omitempty"`
	TagIDs     []string          `json:"tagIds,omitempty"`
	Contents   []json.RawMessage `json:"contents,omitempty"`
}

// CategoryInput — тело POST/PUT /categories.
type CategoryInput struct {
	Name string `json:"name"`
}

// TagInput — тело POST/PUT /tags.
type TagInput struct {
	Name string `json:"name"`
}

// ListParams — пагинация и сортировка списочных эндпойнтов
// (?page=&size=&sort=, например "createdDate,desc").
type ListParams struct {
	Page int
	Size int
	Sort string
}
