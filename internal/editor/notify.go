package editor

import (
	"errors"

	"github.com/hairbystephanie/site/backend/go-services/internal/client"
)

// User-facing notifications.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoginFailed        = "Login failed"
	MsgSaveFailed         = "Save failed"
	MsgSaved              = "Content saved"
)

// LoginMessage picks the notification for a failed login: a rejected
// answer reads as bad credentials, anything else as a failed attempt.
func LoginMessage(err error) string {
	if errors.Is(err, client.ErrUnauthorized) {
		return MsgInvalidCredentials
	}
	return MsgLoginFailed
}

// Notifier surfaces blocking messages to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type discard struct{}

func (discard) Notify(string) {}
