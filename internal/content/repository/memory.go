package repository

import (
	"context"
	"sync"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
)

// MemoryRepo keeps the content document in process memory. Used for local
// development and unit tests; contents are lost on restart.
type MemoryRepo struct {
	mu  sync.RWMutex
	doc *content.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Get(ctx context.Context) (*content.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	return m.doc.Clone(), nil
}

func (m *MemoryRepo) SetField(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return ErrNotFound
	}
	return m.doc.SetField(key, value)
}

func (m *MemoryRepo) ReplaceServices(ctx context.Context, services []content.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return ErrNotFound
	}
	m.doc.Services = content.CloneServices(services)
	return nil
}

func (m *MemoryRepo) Replace(ctx context.Context, doc *content.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
	return nil
}

func (m *MemoryRepo) SeedIfEmpty(ctx context.Context, doc *content.Document) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc != nil {
		return false, nil
	}
	m.doc = doc.Clone()
	return true, nil
}
