package auth

import (
	"context"
	"strconv"
	"sync"

	"github.com/ayush/movie-review-api/internal/models"
	"github.com/ayush/movie-review-api/internal/store"
)

type memUsers struct {
	mu      sync.Mutex
	byName  map[string]*models.User
	writes  int
	findErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byName: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, name, username, hashedPw string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if _, ok := m.byName[username]; ok {
		return nil, store.ErrDuplicate
	}
	u := &models.User{ID: strconv.Itoa(len(m.byName) + 1), Name: name, Username: username, Password: hashedPw}
	m.byName[username] = u
	return u, nil
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byName[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
