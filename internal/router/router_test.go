// Package router tests verify the routing configuration and the
// middleware chains guarding the admin API.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aironlab/internal/handlers"
	"aironlab/internal/middleware"
	"aironlab/internal/session"
)

// testRouter builds the full route tree with zero-value handlers. The
// session store has no Redis client behind it, which is fine for
// requests that carry no session cookie.
func testRouter(t *testing.T) http.Handler {
	t.Helper()
	limiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	return New(&session.Store{}, limiter, Handlers{
		Auth:       &handlers.Auth{},
		Posts:      &handlers.Posts{},
		Categories: &handlers.Categories{},
		Tags:       &handlers.Tags{},
		Authors:    &handlers.Authors{},
		Users:      &handlers.Users{},
		Upload:     &handlers.Upload{},
		Newsletter: &handlers.Newsletter{},
		Public:     &handlers.Public{},
	})
}

func TestHealthRoute(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	testRouter(t).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	routes := []struct {
		method, path string
	}{
		{"GET", "/api/blog/posts"},
		{"POST", "/api/blog/posts"},
		{"GET", "/api/blog/posts/123"},
		{"PUT", "/api/blog/posts/123"},
		{"DELETE", "/api/blog/posts/123"},
		{"GET", "/api/blog/categories"},
		{"POST", "/api/blog/categories"},
		{"GET", "/api/blog/tags"},
		{"POST", "/api/blog/tags"},
		{"GET", "/api/blog/authors"},
		{"PUT", "/api/blog/authors/123"},
		{"POST", "/api/upload"},
		{"GET", "/api/media"},
		{"DELETE", "/api/media/123"},
		{"GET", "/api/users"},
		{"POST", "/api/users/123/reset-2fa"},
	}

	router := testRouter(t)
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(rt.method, rt.path, nil)
		router.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", rt.method, rt.path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Unauthorized") {
			t.Errorf("%s %s: body %q", rt.method, rt.path, w.Body.String())
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/no/such/route", nil)

	testRouter(t).ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	testRouter(t).ServeHTTP(w, r)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options: got %q", got)
	}
}

func TestNewsletterRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	router := New(&session.Store{}, limiter, Handlers{
		Auth:       &handlers.Auth{},
		Posts:      &handlers.Posts{},
		Categories: &handlers.Categories{},
		Tags:       &handlers.Tags{},
		Authors:    &handlers.Authors{},
		Users:      &handlers.Users{},
		Upload:     &handlers.Upload{},
		Newsletter: &handlers.Newsletter{},
		Public:     &handlers.Public{},
	})

	// Third request from the same IP must hit the limiter before the
	// handler (which has no store behind it in this test).
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/newsletter/subscribe", strings.NewReader(`{`))
		r.RemoteAddr = "198.51.100.7:1234"
		router.ServeHTTP(last, r)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("status: got %d, want 429", last.Code)
	}
	if !strings.Contains(last.Body.String(), "Слишком много запросов") {
		t.Errorf("body: %q", last.Body.String())
	}
}
