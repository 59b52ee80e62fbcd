package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pengunin/blog-frontend/internal/httperr"
	"github.com/pengunin/blog-frontend/internal/models"
)

// listParams разбирает пагинацию и сортировку списочных эндпойнтов.
func listParams(r *http.Request) (models.ListParams, bool) {
	var p models.ListParams

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, false
		}
		p.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return p, false
		}
		p.Size = n
	}
	p.Sort = q.Get("sort")

	return p, true
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(r)
	if !ok {
		writeInvalidArgument(w, r)
		return
	}

	posts, err := h.Client.ListPosts(r.Context(), p)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *Handlers) PostsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("categoryId")
	if categoryID == "" {
		writeInvalidArgument(w, r)
		return
	}

	p, ok := listParams(r)
	if !ok {
		writeInvalidArgument(w, r)
		return
	}

	posts, err := h.Client.PostsByCategory(r.Context(), categoryID, p)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *Handlers) PostsByTag(w http.ResponseWriter, r *http.Request) {
	tagID := r.URL.Query().Get("tagId")
	if tagID == "" {
		writeInvalidArgument(w, r)
		return
	}

	p, ok := listParams(r)
	if !ok {
		writeInvalidArgument(w, r)
		return
	}

	posts, err := h.Client.PostsByTag(r.Context(), tagID, p)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *Handlers) PostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeInvalidArgument(w, r)
		return
	}

	post, err := h.Client.PostBySlug(r.Context(), slug)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := decodeStrict(r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	post, err := h.Client.CreatePost(r.Context(), in)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	var in models.PostInput
	if err := decodeStrict(r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	post, err := h.Client.UpdatePost(r.Context(), id, in)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	if err := h.Client.DeletePost(r.Context(), id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
