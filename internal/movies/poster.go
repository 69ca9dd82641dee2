package movies

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ayush/movie-review-api/internal/httpx"
	"github.com/ayush/movie-review-api/internal/models"
	"github.com/ayush/movie-review-api/internal/store"
)

// MaxPosterBytes caps an uploaded poster.
const MaxPosterBytes = 5 << 20

// PosterStore defines the interface for poster image storage.
type PosterStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

func (h *Handler) movieForPoster(w http.ResponseWriter, r *http.Request) (*models.Movie, bool) {
	title := r.URL.Query().Get("title")
	if title == "" {
		httpx.Fail(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	m, err := h.movies.GetByTitle(r.Context(), title)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Movie not found.")
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("title", title).Msg("find movie for poster")
		httpx.Fail(w, http.StatusInternalServerError, "Could not load movie.")
		return nil, false
	}
	return m, true
}

// UploadPoster stores the request body as the poster of ?title=.
func (h *Handler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	m, ok := h.movieForPoster(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, MaxPosterBytes+1))
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Could not read poster.")
		return
	}
	if len(data) == 0 {
		httpx.Fail(w, http.StatusBadRequest, "Poster body is empty.")
		return
	}
	if len(data) > MaxPosterBytes {
		httpx.Fail(w, http.StatusRequestEntityTooLarge, "Poster is too large.")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := store.PosterKey(m.ID.Hex())
	if err := h.posters.Upload(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		log.Error().Err(err).Str("key", key).Msg("poster upload")
		httpx.Fail(w, http.StatusInternalServerError, "Could not save poster.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Ack{Success: true, Msg: "Poster saved."})
}

// DownloadPoster streams the poster of ?title=.
func (h *Handler) DownloadPoster(w http.ResponseWriter, r *http.Request) {
	m, ok := h.movieForPoster(w, r)
	if !ok {
		return
	}

	data, ct, err := h.posters.Download(r.Context(), store.PosterKey(m.ID.Hex()))
	if errors.Is(err, store.ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Poster not found.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("title", m.Title).Msg("poster download")
		httpx.Fail(w, http.StatusInternalServerError, "Could not load poster.")
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Write(data)
}
