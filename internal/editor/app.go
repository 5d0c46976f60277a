// Package editor holds the admin client state: the loaded content, the
// session and the edit/save flow.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotEditing       = errors.New("not in editing mode")
	ErrNotLoaded        = errors.New("content not loaded")
	ErrNoSuchService    = errors.New("no such service")
)

// Mode is the presentation mode.
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "viewing"
}

// API is the subset of the content API the editor needs.
type API interface {
	GetContent(ctx context.Context) (*content.Document, error)
	Login(ctx context.Context, username, password string) (string, error)
	UpdateField(ctx context.Context, token, key, value string) error
	UpdateServices(ctx context.Context, token string, services []content.Service) error
	ReplaceDocument(ctx context.Context, token string, doc *content.Document) (*content.Document, error)
}

// App is the explicit application state shared with the view layer. All
// methods are safe for concurrent use.
type App struct {
	api      API
	notifier Notifier
	strategy SaveStrategy

	mu      sync.Mutex
	session Session
	mode    Mode
	live    *content.Document
	working *content.Document
	saving  bool
}

// Option configures an App.
type Option func(*App)

func WithNotifier(n Notifier) Option {
	return func(a *App) {
		if n != nil {
			a.notifier = n
		}
	}
}

func WithSaveStrategy(s SaveStrategy) Option {
	return func(a *App) { a.strategy = s }
}

func New(api API, opts ...Option) *App {
	a := &App{api: api, notifier: discard{}, strategy: SaveDocument}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *App) notify(msg string) { a.notifier.Notify(msg) }

// Load fetches the content document once. On success live and working
// copies are populated identically; on failure nothing changes and the app
// stays loading.
func (a *App) Load(ctx context.Context) error {
	doc, err := a.api.GetContent(ctx)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("load content: %w", ErrNotLoaded)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.live = doc.Clone()
	a.working = doc.Clone()
	return nil
}

// Loading reports whether no content has been loaded yet.
func (a *App) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live == nil
}

// Live returns a copy of the displayed document, nil while loading.
func (a *App) Live() *content.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live.Clone()
}

// Working returns a copy of the editable document, nil while loading.
func (a *App) Working() *content.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.working.Clone()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) Editing() bool { return a.Mode() == ModeEditing }

// Saving reports whether a save is in flight.
func (a *App) Saving() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saving
}

// EnterEdit switches to editing. An existing working copy is reused, so
// unsaved edits survive leaving and re-entering edit mode.
func (a *App) EnterEdit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.session.Authenticated() {
		return ErrNotAuthenticated
	}
	if a.live == nil {
		return ErrNotLoaded
	}
	if a.working == nil {
		a.working = a.live.Clone()
	}
	a.mode = ModeEditing
	return nil
}

// ExitEdit returns to viewing without touching either copy.
func (a *App) ExitEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = ModeViewing
}

// DiscardChanges reseeds the working copy from live.
func (a *App) DiscardChanges() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.working = a.live.Clone()
}

// editable must be called with mu held.
func (a *App) editable() error {
	if !a.session.Authenticated() {
		return ErrNotAuthenticated
	}
	if a.mode != ModeEditing {
		return ErrNotEditing
	}
	if a.working == nil {
		return ErrNotLoaded
	}
	return nil
}

// SetField updates one scalar field of the working copy.
func (a *App) SetField(key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.editable(); err != nil {
		return err
	}
	return a.working.SetField(key, value)
}

// SetServiceName updates the name of service i; other fields and indices
// are untouched.
func (a *App) SetServiceName(i int, name string) error {
	return a.updateService(i, func(s *content.Service) { s.Name = name })
}

// SetServiceDescription updates the description of service i.
func (a *App) SetServiceDescription(i int, description string) error {
	return a.updateService(i, func(s *content.Service) { s.Description = description })
}

func (a *App) updateService(i int, fn func(*content.Service)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(a.working.Services) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSuchService, i, len(a.working.Services))
	}
	fn(&a.working.Services[i])
	return nil
}
