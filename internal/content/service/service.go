package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/hairbystephanie/site/backend/go-services/internal/content/repository"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
	"github.com/hairbystephanie/site/backend/go-services/pkg/metrics"
)

var (
	ErrNotFound   = repository.ErrNotFound
	ErrUnknownKey = repository.ErrUnknownKey
	ErrInvalid    = errors.New("invalid content")
)

// Write operations, used as the metrics label.
const (
	OpField    = "field"
	OpServices = "services"
	OpDocument = "document"
)

// Archiver stores a snapshot of the document after each write.
type Archiver interface {
	ArchiveContent(ctx context.Context, doc *content.Document) (string, error)
}

// Service defines the content operations used by the handler layer.
type Service interface {
	Get(ctx context.Context) (*content.Document, error)
	SetField(ctx context.Context, key, value string) error
	ReplaceServices(ctx context.Context, services []content.Service) error
	ReplaceDocument(ctx context.Context, doc *content.Document) (*content.Document, error)
	Seed(ctx context.Context, doc *content.Document) (bool, error)
}

// Option configures a content service.
type Option func(*contentService)

// WithArchiver uploads a snapshot after every successful write.
func WithArchiver(a Archiver) Option {
	return func(s *contentService) { s.archiver = a }
}

// New returns a Service backed by repo.
func New(repo repository.Repository, opts ...Option) Service {
	s := &contentService{repo: repo}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) Service {
	return New(repository.NewMemoryRepo(), opts...)
}

type contentService struct {
	repo     repository.Repository
	archiver Archiver
}

func (s *contentService) Get(ctx context.Context) (*content.Document, error) {
	return s.repo.Get(ctx)
}

func (s *contentService) SetField(ctx context.Context, key, value string) error {
	if err := s.repo.SetField(ctx, key, value); err != nil {
		return err
	}
	s.afterWrite(ctx, OpField)
	return nil
}

func (s *contentService) ReplaceServices(ctx context.Context, services []content.Service) error {
	if err := s.repo.ReplaceServices(ctx, content.CloneServices(services)); err != nil {
		return err
	}
	s.afterWrite(ctx, OpServices)
	return nil
}

func (s *contentService) ReplaceDocument(ctx context.Context, doc *content.Document) (*content.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: missing document", ErrInvalid)
	}
	cp := doc.Clone()
	if err := s.repo.Replace(ctx, cp); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, OpDocument)
	return cp, nil
}

// Seed stores doc when the repository is empty.
func (s *contentService) Seed(ctx context.Context, doc *content.Document) (bool, error) {
	seeded, err := s.repo.SeedIfEmpty(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("seed content: %w", err)
	}
	if seeded {
		logger.Infof("seeded default site content")
	}
	return seeded, nil
}

func (s *contentService) afterWrite(ctx context.Context, op string) {
	metrics.ContentWrites.WithLabelValues(op).Inc()
	if s.archiver == nil {
		return
	}
	doc, err := s.repo.Get(ctx)
	if err != nil {
		logger.Warnf("content snapshot skipped: %v", err)
		return
	}
	key, err := s.archiver.ArchiveContent(ctx, doc)
	if err != nil {
		logger.Warnf("content snapshot failed: %v", err)
		return
	}
	logger.Debugf("content snapshot stored at %s", key)
}
