// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"notely/internal/models"
	"notely/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the resolved caller.
	SessionKey contextKey = "session"
)

// LoadSession is the access control layer's single entry point: it resolves
// the caller's identity and role from the session cookie and stores it in
// the request context. Business handlers read the caller via CallerFromCtx
// and never see which auth scheme produced it.
// This middleware does NOT enforce authentication — it just loads the
// session if one exists.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Log but don't block — treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated callers with 401. A session whose 2FA
// challenge is still pending does not count as authenticated.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := CallerFromCtx(r.Context())
		if sess == nil || !sess.TwoFADone {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePending passes only sessions awaiting 2FA verification, plus fully
// authenticated ones. Used by the 2FA endpoints themselves.
func RequirePending(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerFromCtx(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCreator returns 403 if the authenticated caller is not a creator.
// Must be applied after RequireAuth.
func RequireCreator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := CallerFromCtx(r.Context())
		if sess == nil || sess.Role != string(models.RoleCreator) {
			writeJSONError(w, http.StatusForbidden, "Creator role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CallerFromCtx extracts the resolved caller from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func CallerFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
