package routes

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"Folio/internal/api/middleware"
	"Folio/internal/web"
)

// RegisterWebRoutes registers the portfolio page and everything it calls back into.
// The contact endpoint is rate limited per client and accepts cross-origin posts
// from allowedOrigins.
func RegisterWebRoutes(r chi.Router, handlers *web.Handlers, sections web.Sections, thumbs *web.ThumbnailHandler, contactLimiter *middleware.RateLimiter, allowedOrigins []string) {
	r.Get("/", handlers.LandingHandler)
	r.Get("/partials/{section}", handlers.PartialHandler)
	r.Method(http.MethodGet, "/live", web.NewLiveHandler(sections, originChecker(allowedOrigins), nil))
	r.Method(http.MethodGet, "/thumbnails/{preset}", thumbs)
	r.Post("/theme", handlers.ThemeHandler)
	r.Get("/health", handlers.HealthHandler)

	r.Group(func(r chi.Router) {
		r.Use(corsMiddleware(allowedOrigins))
		// Preflight is answered by the CORS middleware
		r.Options("/contact", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(contactLimiter.Middleware).Post("/contact", handlers.ContactHandler)
	})
}

// corsMiddleware creates a CORS middleware for the contact endpoint with specific allowed origins
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
}

// originChecker accepts websocket upgrades from the page's own host or any allowed origin
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowedOrigins, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
