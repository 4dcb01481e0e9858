// Package router sets up the HTTP routes and middleware chains for the
// blog platform. Routes are organized into a public group, an auth group
// and a session-protected admin API.
package router

import (
	"github.com/go-chi/chi/v5"

	"aironlab/internal/handlers"
	"aironlab/internal/middleware"
	"aironlab/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth       *handlers.Auth
	Posts      *handlers.Posts
	Categories *handlers.Categories
	Tags       *handlers.Tags
	Authors    *handlers.Authors
	Users      *handlers.Users
	Upload     *handlers.Upload
	Newsletter *handlers.Newsletter
	Public     *handlers.Public
}

// New creates the configured Chi router with all middleware and route
// groups wired up. The limiter guards the endpoints that accept
// anonymous writes; the caller owns its lifecycle.
func New(sessionStore *session.Store, limiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Public surface. No session needed.
	r.Get("/health", h.Public.Health)
	r.Get("/rss.xml", h.Public.RSS)
	r.Get("/sitemap.xml", h.Public.Sitemap)
	r.Get("/api/blog/public/posts", h.Public.Posts)
	r.Get("/api/blog/public/posts/{slug}", h.Public.Post)
	r.Get("/api/blog/public/categories/{slug}", h.Public.Category)
	r.Get("/api/blog/public/tags/{slug}", h.Public.Tag)
	r.With(limiter.Middleware).Post("/api/newsletter/subscribe", h.Newsletter.Subscribe)

	// Auth endpoints. Login is rate-limited; the 2FA and session
	// endpoints load the session but check it themselves, since they
	// must be reachable before 2FA completes.
	r.Route("/api/auth", func(r chi.Router) {
		r.With(limiter.Middleware).Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.LoadSession(sessionStore))
			r.Post("/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/2fa/verify", h.Auth.TwoFAVerify)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
		})
	})

	// Admin API. Requires a session with completed 2FA.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(sessionStore))
		r.Use(middleware.RequireAuth)

		r.Route("/api/blog/posts", func(r chi.Router) {
			r.Get("/", h.Posts.List)
			r.Post("/", h.Posts.Create)
			r.Get("/{id}", h.Posts.Get)
			r.Put("/{id}", h.Posts.Update)
			r.Delete("/{id}", h.Posts.Delete)
		})

		r.Route("/api/blog/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Post("/", h.Categories.Create)
			r.Put("/{id}", h.Categories.Update)
			r.Delete("/{id}", h.Categories.Delete)
		})

		r.Route("/api/blog/tags", func(r chi.Router) {
			r.Get("/", h.Tags.List)
			r.Post("/", h.Tags.Create)
			r.Put("/{id}", h.Tags.Update)
			r.Delete("/{id}", h.Tags.Delete)
		})

		r.Route("/api/blog/authors", func(r chi.Router) {
			r.Get("/", h.Authors.List)
			r.Put("/{id}", h.Authors.Update)
		})

		r.Post("/api/upload", h.Upload.Create)
		r.Get("/api/media", h.Upload.List)
		r.Delete("/api/media/{id}", h.Upload.Delete)

		// User management is admin-role only.
		r.Route("/api/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", h.Users.List)
			r.Post("/{id}/reset-2fa", h.Users.ResetTwoFA)
		})
	})

	return r
}
