// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notely/internal/apperr"
	"notely/internal/models"
	"notely/internal/slug"
	"notely/internal/store"
)

// Categories groups category CRUD and reporting handlers. Reads are public;
// mutations require the creator role.
type Categories struct {
	categories *store.CategoryStore
	posts      *store.PostStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore, posts *store.PostStore) *Categories {
	return &Categories{categories: categories, posts: posts}
}

// List serves GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(items), Data: orEmpty(items)})
}

// Get serves GET /api/categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.find(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

// GetBySlug serves GET /api/categories/slug/{slug}.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	if category == nil {
		writeError(w, apperr.NotFound("Category not found"))
		return
	}
	writeData(w, http.StatusOK, category)
}

// Posts serves GET /api/categories/{id}/posts: the category's published
// posts, newest first, with the category name alongside.
func (h *Categories) Posts(w http.ResponseWriter, r *http.Request) {
	category, err := h.find(r)
	if err != nil {
		writeError(w, err)
		return
	}

	posts, err := h.posts.ListForCategory(category.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success  bool          `json:"success"`
		Category string        `json:"category"`
		Count    int           `json:"count"`
		Data     []models.Post `json:"data"`
	}{true, category.Name, len(posts), orEmpty(posts)})
}

// Stats serves GET /api/categories/{id}/stats: post counts broken down by
// publish state plus accumulated views.
func (h *Categories) Stats(w http.ResponseWriter, r *http.Request) {
	category, err := h.find(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.categories.Stats(category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

// categoryRequest is the create/update payload.
type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create serves POST /api/categories (creator only). Names are unique; the
// slug is derived from the name and never taken from the payload.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateCategoryInput(req.Name, req.Description); err != nil {
		writeError(w, err)
		return
	}

	existing, err := h.categories.FindByName(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeError(w, apperr.Conflict("Category already exists"))
		return
	}

	category, err := h.categories.Create(&models.Category{
		Name:        req.Name,
		Slug:        slug.Generate(req.Name),
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, category)
}

// updateCategoryRequest is the PATCH/PUT payload; absent fields keep their
// current value.
type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update serves PATCH and PUT /api/categories/{id} (creator only). A name
// change re-derives the slug.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	category, err := h.find(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil && *req.Name != category.Name {
		other, err := h.categories.FindByName(*req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		if other != nil {
			writeError(w, apperr.Conflict("Category already exists"))
			return
		}
		category.Name = *req.Name
		category.Slug = slug.Generate(*req.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := validateCategoryInput(category.Name, category.Description); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.categories.Update(category)
	if err != nil {
		writeError(w, err)
		return
	}
	if updated == nil {
		writeError(w, apperr.NotFound("Category not found"))
		return
	}
	writeData(w, http.StatusOK, updated)
}

// Delete serves DELETE /api/categories/{id} (creator only). A category that
// posts still reference cannot be deleted; the conditional delete in the
// store closes the race with concurrent post creation.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	category, err := h.find(r)
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := h.categories.Delete(category.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		// Either posts reference it, or it vanished since the lookup.
		count, err := h.categories.CountPostsUsing(category.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if count > 0 {
			writeError(w, apperr.Conflict("Cannot delete category. %d post(s) are using this category", count))
			return
		}
		writeError(w, apperr.NotFound("Category not found"))
		return
	}

	writeData(w, http.StatusOK, category)
}

// find fetches the {id} category shared by the single-entity handlers.
func (h *Categories) find(r *http.Request) (*models.Category, error) {
	id, err := uuidParam(r, "id")
	if err != nil {
		return nil, err
	}
	category, err := h.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Category not found")
	}
	return category, nil
}
