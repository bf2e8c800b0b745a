// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notely/internal/apperr"
	"notely/internal/cache"
	"notely/internal/markdown"
	"notely/internal/middleware"
	"notely/internal/models"
	"notely/internal/slug"
	"notely/internal/store"
)

// Posts groups all post-related HTTP handlers: the public feed, single
// reads, creator mutations, and comments.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	popular    *cache.PopularCache
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore, popular *cache.PopularCache) *Posts {
	return &Posts{posts: posts, categories: categories, popular: popular}
}

// List serves GET /api/posts with filtering, search, and pagination.
// All present filters AND together. Omitting isPublished yields published
// posts only, for every caller.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := store.ListParams{
		Search: q.Get("search"),
		Tag:    q.Get("tag"),
	}

	var err error
	if params.Page, err = intQuery(q.Get("page"), 1); err != nil {
		writeError(w, apperr.Validation("Invalid page"))
		return
	}
	if params.Limit, err = intQuery(q.Get("limit"), store.DefaultPageSize); err != nil {
		writeError(w, apperr.Validation("Invalid limit"))
		return
	}
	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, apperr.Validation("Invalid category id"))
			return
		}
		params.Category = &id
	}
	if raw := q.Get("isPublished"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apperr.Validation("Invalid isPublished value"))
			return
		}
		params.IsPublished = &published
	}

	result, err := h.posts.List(params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pagedResponse{
		Success:     true,
		Count:       result.Count,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		Data:        orEmpty(result.Posts),
	})
}

// Get serves GET /api/posts/{id} with author, category, and comments resolved.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperr.NotFound("Post not found"))
		return
	}

	renderPost(post)
	writeData(w, http.StatusOK, post)
}

// GetBySlug serves GET /api/posts/slug/{slug}. This is the reader page's
// fetch, and the only path that moves the view counter: every call
// increments it by exactly one, with no per-viewer dedup.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.ViewBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperr.NotFound("Post not found"))
		return
	}

	renderPost(post)
	writeData(w, http.StatusOK, post)
}

// Popular serves GET /api/posts/popular: published posts by view count.
// Responses are cached in Valkey for a few minutes since view counts move
// on every reader-page fetch.
func (h *Posts) Popular(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r.URL.Query().Get("limit"), 10)
	if err != nil {
		writeError(w, apperr.Validation("Invalid limit"))
		return
	}

	key := cache.Key(limit)
	if body, ok := h.popular.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	posts, err := h.posts.ListPopular(limit)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := json.Marshal(listResponse{Success: true, Count: len(posts), Data: orEmpty(posts)})
	if err != nil {
		writeError(w, err)
		return
	}
	h.popular.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Related serves GET /api/posts/{id}/related: published posts sharing the
// post's category or any tag, newest first.
func (h *Posts) Related(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := intQuery(r.URL.Query().Get("limit"), 5)
	if err != nil {
		writeError(w, apperr.Validation("Invalid limit"))
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperr.NotFound("Post not found"))
		return
	}

	related, err := h.posts.ListRelated(post, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(related), Data: orEmpty(related)})
}

// ByAuthor serves GET /api/posts/author/{userId}: an author's published posts.
func (h *Posts) ByAuthor(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	posts, err := h.posts.ListByAuthor(userID, true)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(posts), Data: orEmpty(posts)})
}

// Mine serves GET /api/posts/me/posts: the creator dashboard's view of the
// caller's own posts, drafts included.
func (h *Posts) Mine(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())

	posts, err := h.posts.ListByAuthor(caller.UserID, false)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(posts), Data: orEmpty(posts)})
}

// createPostRequest is the POST /api/posts payload. The author field is
// accepted and discarded: authorship always comes from the session, so a
// payload cannot spoof another user.
type createPostRequest struct {
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Excerpt     string          `json:"excerpt"`
	Category    *uuid.UUID      `json:"category"`
	Tags        []string        `json:"tags"`
	IsPublished bool            `json:"isPublished"`
	Author      json.RawMessage `json:"author"`
}

// Create serves POST /api/posts (creator only).
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePostInput(req.Title, req.Content, req.Excerpt, req.Tags); err != nil {
		writeError(w, err)
		return
	}

	if req.Category != nil {
		category, err := h.categories.FindByID(*req.Category)
		if err != nil {
			writeError(w, err)
			return
		}
		if category == nil {
			writeError(w, apperr.Validation("Category does not exist"))
			return
		}
	}

	postSlug, err := h.uniquePostSlug(req.Title, uuid.Nil)
	if err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	post, err := h.posts.Create(&models.Post{
		Title:       req.Title,
		Slug:        postSlug,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		AuthorID:    caller.UserID,
		CategoryID:  req.Category,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.popular.InvalidateAll(r.Context())
	writeData(w, http.StatusCreated, post)
}

// updatePostRequest is the PATCH/PUT payload. Absent fields are left
// unchanged; category distinguishes absent from explicit null so a post
// can be detached from its category. The author field is discarded:
// authorship is immutable.
type updatePostRequest struct {
	Title       *string         `json:"title"`
	Content     *string         `json:"content"`
	Excerpt     *string         `json:"excerpt"`
	Category    json.RawMessage `json:"category"`
	Tags        *[]string       `json:"tags"`
	IsPublished *bool           `json:"isPublished"`
	Author      json.RawMessage `json:"author"`
}

// Update serves PATCH and PUT /api/posts/{id} (owner only).
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	post, err := h.loadOwnedPost(r, "Not authorized to update this post")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updatePostRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}
	if len(req.Category) > 0 {
		if string(req.Category) == "null" {
			post.CategoryID = nil
		} else {
			var id uuid.UUID
			if err := json.Unmarshal(req.Category, &id); err != nil {
				writeError(w, apperr.Validation("Invalid category id"))
				return
			}
			category, err := h.categories.FindByID(id)
			if err != nil {
				writeError(w, err)
				return
			}
			if category == nil {
				writeError(w, apperr.Validation("Category does not exist"))
				return
			}
			post.CategoryID = &id
		}
	}

	if err := validatePostInput(post.Title, post.Content, post.Excerpt, post.Tags); err != nil {
		writeError(w, err)
		return
	}

	// A changed title changes the slug; keep it unique among other posts.
	if req.Title != nil {
		if post.Slug, err = h.uniquePostSlug(post.Title, post.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	updated, err := h.posts.Update(post)
	if err != nil {
		writeError(w, err)
		return
	}
	if updated == nil {
		writeError(w, apperr.NotFound("Post not found"))
		return
	}

	h.popular.InvalidateAll(r.Context())
	writeData(w, http.StatusOK, updated)
}

// Delete serves DELETE /api/posts/{id} (owner only). Comments go with the post.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	post, err := h.loadOwnedPost(r, "Not authorized to delete this post")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.posts.Delete(post.ID); err != nil {
		writeError(w, err)
		return
	}

	h.popular.InvalidateAll(r.Context())
	writeData(w, http.StatusOK, post)
}

// TogglePublish serves PATCH /api/posts/{id}/publish (owner only). It flips
// the publish flag and touches nothing else.
func (h *Posts) TogglePublish(w http.ResponseWriter, r *http.Request) {
	post, err := h.loadOwnedPost(r, "Not authorized to modify this post")
	if err != nil {
		writeError(w, err)
		return
	}

	toggled, err := h.posts.TogglePublish(post.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if toggled == nil {
		writeError(w, apperr.NotFound("Post not found"))
		return
	}

	h.popular.InvalidateAll(r.Context())
	writeData(w, http.StatusOK, toggled)
}

// commentRequest is the POST /api/posts/{id}/comments payload.
type commentRequest struct {
	Content string `json:"content"`
}

// AddComment serves POST /api/posts/{id}/comments. Any authenticated user
// may comment; the response is the post with its comments resolved.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateComment(req.Content); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperr.NotFound("Post not found"))
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	if _, err := h.posts.AddComment(post.ID, caller.UserID, req.Content); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.posts.FindByID(post.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	renderPost(updated)
	writeData(w, http.StatusCreated, updated)
}

// DeleteComment serves DELETE /api/posts/{id}/comments/{commentId}.
// Allowed for the comment's author or the post's author.
func (h *Posts) DeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	commentID, err := uuidParam(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.FindByID(postID)
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperr.NotFound("Post not found"))
		return
	}

	comment, err := h.posts.FindComment(postID, commentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if comment == nil {
		writeError(w, apperr.NotFound("Comment not found"))
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	if comment.UserID != caller.UserID && post.AuthorID != caller.UserID {
		writeError(w, apperr.Forbidden("Not authorized to delete this comment"))
		return
	}

	if err := h.posts.DeleteComment(comment.ID); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.posts.FindByID(postID)
	if err != nil {
		writeError(w, err)
		return
	}

	renderPost(updated)
	writeData(w, http.StatusOK, updated)
}

// loadOwnedPost fetches the {id} post and enforces the ownership check all
// post mutations share. forbiddenMsg keeps the per-operation wording.
func (h *Posts) loadOwnedPost(r *http.Request, forbiddenMsg string) (*models.Post, error) {
	id, err := uuidParam(r, "id")
	if err != nil {
		return nil, err
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound("Post not found")
	}

	caller := middleware.CallerFromCtx(r.Context())
	if post.AuthorID != caller.UserID {
		return nil, apperr.Forbidden("%s", forbiddenMsg)
	}
	return post, nil
}

// uniquePostSlug derives the slug for a title and rejects duplicates.
func (h *Posts) uniquePostSlug(title string, excludeID uuid.UUID) (string, error) {
	s := slug.Generate(title)
	if s == "" {
		return "", apperr.Validation("Title must contain at least one letter or digit")
	}
	exists, err := h.posts.SlugExists(s, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apperr.Conflict("A post with slug %q already exists", s)
	}
	return s, nil
}

// renderPost fills in the rendered HTML body and sanitizes comment text
// before the post leaves the API. Rendering failures degrade to the raw
// Markdown rather than failing the read.
func renderPost(post *models.Post) {
	if post == nil {
		return
	}
	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("markdown render failed", "post", post.ID, "error", err)
	} else {
		post.ContentHTML = html
	}
	for i := range post.Comments {
		post.Comments[i].Content = markdown.Sanitize(post.Comments[i].Content)
	}
}
