// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Notely API. It organizes routes into public, authenticated, and
// creator-only groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"notely/internal/handlers"
	"notely/internal/metrics"
	"notely/internal/middleware"
	"notely/internal/session"
)

// Deps carries everything the router wires together.
type Deps struct {
	Sessions   *session.Store
	Metrics    *metrics.Metrics
	CORSOrigin string

	Auth       *handlers.Auth
	Posts      *handlers.Posts
	Categories *handlers.Categories
	Users      *handlers.Users
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigin))
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.LoadSession(d.Sessions))

	limiter := middleware.NewRateLimiter(300, time.Minute)
	r.Use(limiter.Middleware)

	// Operational endpoints — no auth.
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.Post("/logout", d.Auth.Logout)

			// 2FA verify accepts sessions whose challenge is still pending.
			r.With(middleware.RequirePending).Post("/2fa/verify", d.Auth.TwoFAVerify)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", d.Auth.Me)
				r.Post("/2fa/setup", d.Auth.TwoFASetup)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			// Public reads. Static segments win over {id} in chi, so
			// /popular and /slug never collide with the id routes.
			r.Get("/", d.Posts.List)
			r.Get("/popular", d.Posts.Popular)
			r.Get("/slug/{slug}", d.Posts.GetBySlug)
			r.Get("/author/{userId}", d.Posts.ByAuthor)
			r.Get("/{id}", d.Posts.Get)
			r.Get("/{id}/related", d.Posts.Related)

			// Commenting is open to every authenticated user.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/{id}/comments", d.Posts.AddComment)
				r.Delete("/{id}/comments/{commentId}", d.Posts.DeleteComment)
			})

			// Authoring requires the creator role; ownership checks on the
			// individual post happen in the handlers.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireCreator)
				r.Post("/", d.Posts.Create)
				r.Get("/me/posts", d.Posts.Mine)
				r.Patch("/{id}", d.Posts.Update)
				r.Put("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
				r.Patch("/{id}/publish", d.Posts.TogglePublish)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/slug/{slug}", d.Categories.GetBySlug)
			r.Get("/{id}", d.Categories.Get)
			r.Get("/{id}/posts", d.Categories.Posts)
			r.Get("/{id}/stats", d.Categories.Stats)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireCreator)
				r.Post("/", d.Categories.Create)
				r.Patch("/{id}", d.Categories.Update)
				r.Put("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			// Provider webhooks authenticate out of band, not via session.
			r.Post("/webhook", d.Users.Webhook)

			r.Get("/creators", d.Users.Creators)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/sync", d.Users.Sync)
				r.Get("/me", d.Users.Me)
				r.Put("/me", d.Users.UpdateProfile)
				r.Get("/me/profile", d.Users.Me)
				r.Put("/me/profile", d.Users.UpdateProfile)
			})

			r.Get("/{id}", d.Users.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireCreator)
				r.Get("/", d.Users.List)
				r.Delete("/{id}", d.Users.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
