package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pengunin/blog-frontend/internal/httperr"
	"github.com/pengunin/blog-frontend/internal/models"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Client.ListCategories(r.Context())
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	category, err := h.Client.CategoryByID(r.Context(), id)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decodeStrict(r, &in); err != nil || in.Name == "" {
		writeInvalidArgument(w, r)
		return
	}

	category, err := h.Client.CreateCategory(r.Context(), in)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	var in models.CategoryInput
	if err := decodeStrict(r, &in); err != nil || in.Name == "" {
		writeInvalidArgument(w, r)
		return
	}

	category, err := h.Client.UpdateCategory(r.Context(), id, in)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	if err := h.Client.DeleteCategory(r.Context(), id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
