package users

import (
	"context"
	"sync"

	"github.com/hairbystephanie/site/backend/go-services/internal/models"
)

// MemoryRepo keeps users in process memory.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: map[string]models.User{}}
}

func (m *MemoryRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryRepo) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return ErrUserExists
	}
	stamp(u)
	m.users[u.Username] = *u
	return nil
}
