package reviews

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/movie-review-api/internal/httpx"
	"github.com/ayush/movie-review-api/internal/models"
	"github.com/ayush/movie-review-api/internal/store"
	"github.com/ayush/movie-review-api/internal/telemetry"
	"github.com/ayush/movie-review-api/internal/validation"
)

// ReviewStore defines the interface for review persistence.
type ReviewStore interface {
	Insert(ctx context.Context, r *models.Review) (string, error)
	List(ctx context.Context) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
}

// Tracker receives usage events. Track must not block.
type Tracker interface {
	Track(ev telemetry.Event)
}

// Invalidator drops cached movie listings that embed reviews.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Handler holds review HTTP handlers.
type Handler struct {
	reviews ReviewStore
	tracker Tracker
	cache   Invalidator
}

// NewHandler wires the review handlers. tracker and cache may be nil.
func NewHandler(reviews ReviewStore, tracker Tracker, cache Invalidator) *Handler {
	return &Handler{reviews: reviews, tracker: tracker, cache: cache}
}

// Create stores a review and reports it to telemetry.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReviewRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validation.Struct(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	review := &models.Review{
		MovieID:  req.MovieID,
		Username: req.Username,
		Review:   req.Review,
		Rating:   *req.Rating,
	}
	if _, err := h.reviews.Insert(r.Context(), review); err != nil {
		log.Error().Err(err).Str("movie_id", req.MovieID).Msg("insert review")
		httpx.Fail(w, http.StatusInternalServerError, "Could not save review.")
		return
	}
	h.invalidate(r.Context())

	if h.tracker != nil {
		h.tracker.Track(telemetry.ReviewCreated(req.MovieID))
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Review created!"})
}

// List returns every review.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list reviews")
		httpx.Fail(w, http.StatusInternalServerError, "Could not load reviews.")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	httpx.WriteJSON(w, http.StatusOK, reviews)
}

// Delete removes the review named by the review_id path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "review_id")
	if !primitive.IsValidObjectID(id) {
		httpx.Fail(w, http.StatusBadRequest, "Invalid review id.")
		return
	}

	err := h.reviews.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Review not found.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("review_id", id).Msg("delete review")
		httpx.Fail(w, http.StatusInternalServerError, "Could not delete review.")
		return
	}
	h.invalidate(r.Context())

	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Successfully deleted"})
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("listing cache invalidate")
	}
}
