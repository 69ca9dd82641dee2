package movies

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/ayush/movie-review-api/internal/httpx"
	"github.com/ayush/movie-review-api/internal/models"
	"github.com/ayush/movie-review-api/internal/store"
	"github.com/ayush/movie-review-api/internal/validation"
)

// MovieStore defines the interface for catalog persistence.
type MovieStore interface {
	Insert(ctx context.Context, m *models.Movie) (string, error)
	List(ctx context.Context) ([]models.Movie, error)
	ListWithReviews(ctx context.Context) ([]models.MovieWithReviews, error)
	GetByTitle(ctx context.Context, title string) (*models.Movie, error)
	UpdateByTitle(ctx context.Context, title string, patch models.MoviePatch) error
	DeleteByTitle(ctx context.Context, title string) error
}

// ListingCache holds encoded movie listings. Implementations may be slow or
// down; failures only cost a store round trip. Get returns a nil body on a
// miss together with the generation the listing must be Set under.
type ListingCache interface {
	Get(ctx context.Context, withReviews bool) (body []byte, gen int64, err error)
	Set(ctx context.Context, withReviews bool, gen int64, body []byte) error
	Invalidate(ctx context.Context) error
}

// Handler holds movie HTTP handlers.
type Handler struct {
	movies  MovieStore
	cache   ListingCache
	posters PosterStore
}

// NewHandler wires the movie handlers. cache and posters may be nil.
func NewHandler(movies MovieStore, cache ListingCache, posters PosterStore) *Handler {
	return &Handler{movies: movies, cache: cache, posters: posters}
}

// List returns every movie, joined with its reviews when ?reviews=true.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	withReviews := r.URL.Query().Get("reviews") == "true"
	ctx := r.Context()

	var (
		gen       int64
		cacheable bool
	)
	if h.cache != nil {
		body, g, err := h.cache.Get(ctx, withReviews)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("listing cache get")
		case body != nil:
			httpx.WriteRaw(w, http.StatusOK, body)
			return
		default:
			gen, cacheable = g, true
		}
	}

	var (
		result any
		err    error
	)
	if withReviews {
		result, err = h.movies.ListWithReviews(ctx)
	} else {
		result, err = h.movies.List(ctx)
	}
	if err != nil {
		log.Error().Err(err).Bool("reviews", withReviews).Msg("list movies")
		httpx.Fail(w, http.StatusInternalServerError, "Could not load movies.")
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("encode movies")
		httpx.Fail(w, http.StatusInternalServerError, "Could not load movies.")
		return
	}
	if cacheable {
		if err := h.cache.Set(ctx, withReviews, gen, body); err != nil {
			log.Warn().Err(err).Msg("listing cache set")
		}
	}
	httpx.WriteRaw(w, http.StatusOK, body)
}

// Create adds a movie. All four fields are required.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMovieRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validation.Struct(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	m := &models.Movie{Title: req.Title, ReleaseDate: req.ReleaseDate, Genre: req.Genre, Actors: req.Actors}
	id, err := h.movies.Insert(r.Context(), m)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("insert movie")
		httpx.Fail(w, http.StatusInternalServerError, "Could not save movie.")
		return
	}
	h.invalidate(r.Context())

	httpx.WriteJSON(w, http.StatusOK, httpx.Ack{Success: true, Msg: "Movie saved.", ID: id})
}

// Update patches the movie with the given title.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMovieRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validation.Struct(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	patch := req.Patch()
	if patch.Empty() {
		httpx.Fail(w, http.StatusBadRequest, validation.New("patch", "Nothing to update.").Error())
		return
	}

	err := h.movies.UpdateByTitle(r.Context(), req.Title, patch)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Movie not found.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("update movie")
		httpx.Fail(w, http.StatusInternalServerError, "Could not update movie.")
		return
	}
	h.invalidate(r.Context())

	httpx.WriteJSON(w, http.StatusOK, httpx.Ack{Success: true, Msg: "Movie updated."})
}

type deleteRequest struct {
	Title string `json:"title"`
}

// Delete removes the movie with the given title, read from the body or ?title=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := httpx.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Title == "" {
		req.Title = r.URL.Query().Get("title")
	}
	if req.Title == "" {
		httpx.Fail(w, http.StatusBadRequest, "title is required")
		return
	}

	err := h.movies.DeleteByTitle(r.Context(), req.Title)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Movie not found.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("delete movie")
		httpx.Fail(w, http.StatusInternalServerError, "Could not delete movie.")
		return
	}
	h.invalidate(r.Context())

	httpx.WriteJSON(w, http.StatusOK, httpx.Ack{Success: true, Msg: "Movie deleted."})
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("listing cache invalidate")
	}
}
