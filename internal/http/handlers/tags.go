package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pengunin/blog-frontend/internal/httperr"
	"github.com/pengunin/blog-frontend/internal/models"
)

func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Client.ListTags(r.Context())
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func (h *Handlers) GetTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	tag, err := h.Client.TagByID(r.Context(), id)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in models.TagInput
	if err := decodeStrict(r, &in); err != nil || in.Name == "" {
		writeInvalidArgument(w, r)
		return
	}

	tag, err := h.Client.CreateTag(r.Context(), in)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

func (h *Handlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	var in models.TagInput
	if err := decodeStrict(r, &in); err != nil || in.Name == "" {
		writeInvalidArgument(w, r)
		return
	}

	tag, err := h.Client.UpdateTag(r.Context(), id, in)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeInvalidArgument(w, r)
		return
	}

	if err := h.Client.DeleteTag(r.Context(), id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
