package movies

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/movie-review-api/internal/models"
	"github.com/ayush/movie-review-api/internal/store"
)

type memMovies struct {
	mu      sync.Mutex
	movies  []models.Movie
	reviews []models.Review
	calls   int
	err     error

	// afterList runs once a List read has completed, outside the lock.
	afterList func()
}

func (m *memMovies) Insert(_ context.Context, mv *models.Movie) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	mv.ID = primitive.NewObjectID()
	m.movies = append(m.movies, *mv)
	return mv.ID.Hex(), nil
}

func (m *memMovies) List(context.Context) ([]models.Movie, error) {
	m.mu.Lock()
	m.calls++
	if m.err != nil {
		m.mu.Unlock()
		return nil, m.err
	}
	out := append([]models.Movie{}, m.movies...)
	hook := m.afterList
	m.afterList = nil
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *memMovies) ListWithReviews(context.Context) ([]models.MovieWithReviews, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := []models.MovieWithReviews{}
	for _, mv := range m.movies {
		joined := models.MovieWithReviews{Movie: mv, Reviews: []models.Review{}}
		for _, r := range m.reviews {
			if r.MovieID == mv.ID.Hex() {
				joined.Reviews = append(joined.Reviews, r)
			}
		}
		out = append(out, joined)
	}
	return out, nil
}

func (m *memMovies) find(title string) int {
	for i, mv := range m.movies {
		if mv.Title == title {
			return i
		}
	}
	return -1
}

func (m *memMovies) GetByTitle(_ context.Context, title string) (*models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	i := m.find(title)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	cp := m.movies[i]
	return &cp, nil
}

func (m *memMovies) UpdateByTitle(_ context.Context, title string, p models.MoviePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	i := m.find(title)
	if i < 0 {
		return store.ErrNotFound
	}
	if p.ReleaseDate != nil {
		m.movies[i].ReleaseDate = *p.ReleaseDate
	}
	if p.Genre != nil {
		m.movies[i].Genre = *p.Genre
	}
	if p.Actors != nil {
		m.movies[i].Actors = p.Actors
	}
	return nil
}

func (m *memMovies) DeleteByTitle(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	i := m.find(title)
	if i < 0 {
		return store.ErrNotFound
	}
	m.movies = append(m.movies[:i], m.movies[i+1:]...)
	return nil
}

type memCache struct {
	gen         int64
	entries     map[string][]byte
	invalidated int
	getErr      error
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func cacheKey(gen int64, withReviews bool) string {
	return fmt.Sprintf("%d:%t", gen, withReviews)
}

func (c *memCache) has(withReviews bool) bool {
	_, ok := c.entries[cacheKey(c.gen, withReviews)]
	return ok
}

func (c *memCache) Get(_ context.Context, withReviews bool) ([]byte, int64, error) {
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	return c.entries[cacheKey(c.gen, withReviews)], c.gen, nil
}

func (c *memCache) Set(_ context.Context, withReviews bool, gen int64, body []byte) error {
	c.entries[cacheKey(gen, withReviews)] = body
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.invalidated++
	c.gen++
	return nil
}

type poster struct {
	data []byte
	ct   string
}

type memPosters struct {
	objects map[string]poster
}

func newMemPosters() *memPosters { return &memPosters{objects: map[string]poster{}} }

func (p *memPosters) Upload(_ context.Context, key string, r io.Reader, size int64, ct string) error {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return err
	}
	if n != size {
		return errors.New("size mismatch")
	}
	p.objects[key] = poster{data: buf.Bytes(), ct: ct}
	return nil
}

func (p *memPosters) Download(_ context.Context, key string) ([]byte, string, error) {
	obj, ok := p.objects[key]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return obj.data, obj.ct, nil
}
