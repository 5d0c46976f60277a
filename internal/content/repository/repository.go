package repository

import (
	"context"
	"errors"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
)

var (
	ErrNotFound   = errors.New("content document not found")
	ErrUnknownKey = content.ErrUnknownKey
)

// Repository persists the single site content document. Implementations
// never hand out references to their internal state.
type Repository interface {
	Get(ctx context.Context) (*content.Document, error)
	// SetField updates one scalar field; unknown keys match ErrUnknownKey.
	SetField(ctx context.Context, key, value string) error
	// ReplaceServices replaces the entire services list, preserving order.
	ReplaceServices(ctx context.Context, services []content.Service) error
	// Replace writes the whole document in one atomic operation.
	Replace(ctx context.Context, doc *content.Document) error
	// SeedIfEmpty stores doc when nothing is stored yet and reports whether it did.
	SeedIfEmpty(ctx context.Context, doc *content.Document) (bool, error)
}

var (
	_ Repository = (*MemoryRepo)(nil)
	_ Repository = (*MongoRepo)(nil)
	_ Repository = (*GormRepo)(nil)
)

// IsNotFound reports whether err means no content has been stored yet.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
