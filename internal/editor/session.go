package editor

import (
	"context"
	"fmt"

	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

// Session holds the bearer token in process memory only.
type Session struct {
	token string
}

// Authenticated reports whether a token is held.
func (s Session) Authenticated() bool { return s.token != "" }

// Login exchanges credentials for a token. On failure the session stays
// unauthenticated and the returned error wraps client.ErrUnauthorized
// (MsgInvalidCredentials is raised) or client.ErrUnreachable (MsgLoginFailed).
func (a *App) Login(ctx context.Context, username, password string) error {
	token, err := a.api.Login(ctx, username, password)
	if err != nil {
		logger.Debugf("login failed: %v", err)
		a.notify(LoginMessage(err))
		return fmt.Errorf("login: %w", err)
	}

	a.mu.Lock()
	a.session = Session{token: token}
	a.mu.Unlock()
	return nil
}

// Logout drops the token and leaves editing mode. The backend is not told.
func (a *App) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = Session{}
	a.mode = ModeViewing
}

// Authenticated reports whether the app holds a session token.
func (a *App) Authenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Authenticated()
}
