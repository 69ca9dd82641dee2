// Package server assembles the HTTP routes.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/ayush/movie-review-api/internal/auth"
	"github.com/ayush/movie-review-api/internal/diagnostics"
	"github.com/ayush/movie-review-api/internal/httpx"
	"github.com/ayush/movie-review-api/internal/logging"
	"github.com/ayush/movie-review-api/internal/middleware"
	"github.com/ayush/movie-review-api/internal/movies"
	"github.com/ayush/movie-review-api/internal/reviews"
)

// Deps are the handlers and policies the router needs.
type Deps struct {
	Auth    *auth.Handler
	Movies  *movies.Handler
	Reviews *reviews.Handler
	Gate    *middleware.Gate

	// Posters mounts /posters when true.
	Posters bool

	UniqueKey       string
	AllowedOrigins  []string
	SigninRateLimit int
}

// NewRouter wires every route. Gating is decided per route by d.Gate.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.TokenHeader},
		MaxAge:         300,
	}))
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	g := d.Gate
	r.With(g.For(http.MethodPost, "/signup")).Post("/signup", d.Auth.Signup)
	signin := r.With(g.For(http.MethodPost, "/signin"))
	if d.SigninRateLimit > 0 {
		signin = signin.With(httprate.LimitByIP(d.SigninRateLimit, time.Minute))
	}
	signin.Post("/signin", d.Auth.Signin)

	r.With(g.For(http.MethodGet, "/movies")).Get("/movies", d.Movies.List)
	r.With(g.For(http.MethodPost, "/movies")).Post("/movies", d.Movies.Create)
	r.With(g.For(http.MethodPut, "/movies")).Put("/movies", d.Movies.Update)
	r.With(g.For(http.MethodDelete, "/movies")).Delete("/movies", d.Movies.Delete)

	if d.Posters {
		r.With(g.For(http.MethodGet, "/posters")).Get("/posters", d.Movies.DownloadPoster)
		r.With(g.For(http.MethodPut, "/posters")).Put("/posters", d.Movies.UploadPoster)
	}

	r.With(g.For(http.MethodGet, "/reviews")).Get("/reviews", d.Reviews.List)
	r.With(g.For(http.MethodPost, "/reviews")).Post("/reviews", d.Reviews.Create)
	r.With(g.For(http.MethodDelete, "/reviews/{review_id}")).Delete("/reviews/{review_id}", d.Reviews.Delete)

	echo := diagnostics.EchoHandler(d.UniqueKey)
	r.With(g.For(http.MethodGet, "/diagnostics/echo")).Get("/diagnostics/echo", echo)
	r.With(g.For(http.MethodPost, "/diagnostics/echo")).Post("/diagnostics/echo", echo)

	return r
}
