package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

// SaveStrategy selects how Save pushes the working copy.
type SaveStrategy int

const (
	// SaveDocument writes the whole working copy in one request.
	SaveDocument SaveStrategy = iota
	// SaveFieldByField writes each scalar field, then the services list,
	// one request each.
	SaveFieldByField
)

func (s SaveStrategy) String() string {
	if s == SaveFieldByField {
		return "field-by-field"
	}
	return "document"
}

// ParseSaveStrategy accepts "document" or "field-by-field".
func ParseSaveStrategy(v string) (SaveStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "document":
		return SaveDocument, nil
	case "field-by-field", "fields":
		return SaveFieldByField, nil
	}
	return SaveDocument, fmt.Errorf("unknown save strategy %q", v)
}

// ServicesPart names the services list in PartialSaveError.
const ServicesPart = "services"

// PartialSaveError reports a field-by-field save that stopped early. The
// parts in Applied are already stored on the backend.
type PartialSaveError struct {
	Applied []string
	Failed  string
	Err     error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("save stopped at %s after %d applied writes: %v", e.Failed, len(e.Applied), e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// Save pushes the working copy. On success it becomes live, editing ends
// and MsgSaved is raised. On failure nothing is promoted, editing
// continues and MsgSaveFailed is raised.
func (a *App) Save(ctx context.Context) error {
	a.mu.Lock()
	if err := a.editable(); err != nil {
		a.mu.Unlock()
		return err
	}
	if a.saving {
		a.mu.Unlock()
		return fmt.Errorf("save already in progress")
	}
	a.saving = true
	token := a.session.token
	snapshot := a.working.Clone()
	a.mu.Unlock()

	var (
		stored *content.Document
		err    error
	)
	switch a.strategy {
	case SaveFieldByField:
		err = a.saveFields(ctx, token, snapshot)
		stored = snapshot
	default:
		stored, err = a.api.ReplaceDocument(ctx, token, snapshot)
		if err == nil && stored == nil {
			stored = snapshot
		}
	}

	a.mu.Lock()
	a.saving = false
	if err != nil {
		a.mu.Unlock()
		logger.Debugf("save failed: %v", err)
		a.notify(MsgSaveFailed)
		return fmt.Errorf("save: %w", err)
	}
	a.live = stored.Clone()
	a.mode = ModeViewing
	a.mu.Unlock()

	a.notify(MsgSaved)
	return nil
}

// stillSignedIn reports whether token is still the session token.
func (a *App) stillSignedIn(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.token == token
}

func (a *App) saveFields(ctx context.Context, token string, doc *content.Document) error {
	var applied []string
	fail := func(part string, err error) error {
		return &PartialSaveError{Applied: applied, Failed: part, Err: err}
	}
	for _, key := range content.FieldKeys {
		if !a.stillSignedIn(token) {
			return fail(key, ErrNotAuthenticated)
		}
		value, _ := doc.Field(key)
		if err := a.api.UpdateField(ctx, token, key, value); err != nil {
			return fail(key, err)
		}
		applied = append(applied, key)
	}
	if !a.stillSignedIn(token) {
		return fail(ServicesPart, ErrNotAuthenticated)
	}
	if err := a.api.UpdateServices(ctx, token, doc.Services); err != nil {
		return fail(ServicesPart, err)
	}
	return nil
}
