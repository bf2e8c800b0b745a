package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"notely/internal/handlers"
	"notely/internal/identity"
	"notely/internal/metrics"
	"notely/internal/session"
)

// testRouter builds the route tree with nil-backed stores. Only routes that
// are rejected before reaching a handler (auth gates, 404s) are exercised;
// anything touching the database belongs in the handlers package tests.
func testRouter() http.Handler {
	sessions := session.NewStore(nil, false)
	return New(Deps{
		Sessions:   sessions,
		Metrics:    metrics.New(),
		CORSOrigin: "http://localhost:5173",
		Auth:       handlers.NewAuth(nil, sessions),
		Posts:      handlers.NewPosts(nil, nil, nil),
		Categories: handlers.NewCategories(nil, nil),
		Users:      handlers.NewUsers(nil, nil, identity.Noop{}, sessions),
	})
}

func TestHealthRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestMetricsRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/posts"},
		{http.MethodPatch, "/api/posts/123"},
		{http.MethodDelete, "/api/posts/123"},
		{http.MethodGet, "/api/posts/me/posts"},
		{http.MethodPost, "/api/posts/123/comments"},
		{http.MethodPost, "/api/categories"},
		{http.MethodDelete, "/api/categories/123"},
		{http.MethodGet, "/api/users/sync"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodPut, "/api/users/me"},
		{http.MethodGet, "/api/users/me/profile"},
		{http.MethodPut, "/api/users/me/profile"},
		{http.MethodGet, "/api/users"},
		{http.MethodDelete, "/api/users/123"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/2fa/setup"},
		{http.MethodPost, "/api/auth/2fa/verify"},
	}

	r := testRouter()
	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/posts", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
