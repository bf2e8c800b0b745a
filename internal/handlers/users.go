// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"notely/internal/apperr"
	"notely/internal/identity"
	"notely/internal/middleware"
	"notely/internal/models"
	"notely/internal/session"
	"notely/internal/store"
)

// Users groups profile, directory, and identity-provider sync handlers.
type Users struct {
	users    *store.UserStore
	posts    *store.PostStore
	provider identity.Provider
	sessions *session.Store
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, posts *store.PostStore, provider identity.Provider, sessions *session.Store) *Users {
	return &Users{users: users, posts: posts, provider: provider, sessions: sessions}
}

// Sync serves GET /api/users/sync: the caller's own database record. The
// frontend calls this once after login to pick up role and avatar.
func (h *Users) Sync(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())

	user, err := h.users.FindByID(caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("User not found"))
		return
	}
	writeData(w, http.StatusOK, user)
}

// Me serves GET /api/users/me.
func (h *Users) Me(w http.ResponseWriter, r *http.Request) {
	h.Sync(w, r)
}

// updateProfileRequest is the PUT /api/users/me payload.
type updateProfileRequest struct {
	Name *string      `json:"name"`
	Role *models.Role `json:"role"`
}

// UpdateProfile serves PUT /api/users/me. Name changes on provider-managed
// accounts are pushed to the identity provider best-effort: a provider
// failure is logged, never surfaced, and the next webhook reconciles.
func (h *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Role != nil {
		if err := validateRole(*req.Role); err != nil {
			writeError(w, err)
			return
		}
	}

	caller := middleware.CallerFromCtx(r.Context())
	user, err := h.users.UpdateProfile(caller.UserID, req.Name, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("User not found"))
		return
	}

	if req.Name != nil && user.ExternalID != nil {
		first, last := identity.SplitName(user.Name)
		if err := h.provider.UpdateName(r.Context(), *user.ExternalID, first, last); err != nil {
			slog.Warn("identity provider name update failed", "user", user.ID, "error", err)
		}
	}

	// Role and name live in the session too; refresh it so a promotion or
	// demotion takes effect immediately instead of at the next login.
	caller.Name = user.Name
	caller.Role = string(user.Role)
	if err := h.sessions.Update(r.Context(), r, caller); err != nil {
		slog.Warn("session refresh after profile update failed", "user", user.ID, "error", err)
	}

	writeData(w, http.StatusOK, user)
}

// List serves GET /api/users (creator only).
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(users), Data: orEmpty(users)})
}

// Creators serves GET /api/users/creators: the public author directory.
func (h *Users) Creators(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListCreators()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(users), Data: orEmpty(users)})
}

// Get serves GET /api/users/{id}: a public profile.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("User not found"))
		return
	}
	writeData(w, http.StatusOK, user)
}

// Delete serves DELETE /api/users/{id} (creator only). A user who still
// authors posts cannot be deleted; the conditional delete in the store makes
// the guard atomic. Provider-side deletion follows best-effort.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("User not found"))
		return
	}

	deleted, err := h.users.Delete(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		count, err := h.posts.CountByAuthor(user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if count > 0 {
			writeError(w, apperr.Conflict("Cannot delete user. %d post(s) are authored by this user", count))
			return
		}
		writeError(w, apperr.NotFound("User not found"))
		return
	}

	if user.ExternalID != nil {
		if err := h.provider.DeleteUser(r.Context(), *user.ExternalID); err != nil {
			slog.Warn("identity provider delete failed", "user", user.ID, "error", err)
		}
	}

	writeData(w, http.StatusOK, user)
}

// webhookEvent is the identity provider's event envelope.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// Webhook serves POST /api/users/webhook: provider lifecycle events that keep
// the local user mirror in step. Handling is idempotent, so redelivered
// events converge instead of erroring.
func (h *Users) Webhook(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := decodeWebhook(r, &event); err != nil {
		writeError(w, err)
		return
	}
	if event.Data.ID == "" {
		writeError(w, apperr.Validation("Event data is missing the user id"))
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		name := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)
		if name == "" {
			name = "User"
		}
		var email string
		if len(event.Data.EmailAddresses) > 0 {
			email = event.Data.EmailAddresses[0].EmailAddress
		}
		user, err := h.users.UpsertExternal(event.Data.ID, email, name, event.Data.ImageURL)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, user)

	case "user.deleted":
		if err := h.users.DeleteByExternalID(event.Data.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User deleted"})

	default:
		writeError(w, apperr.Validation("Unsupported event type %q", event.Type))
	}
}
