package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hairbystephanie/site/backend/go-services/internal/editor"
)

func newApp(cmd *cobra.Command, s *Settings) *editor.App {
	notify := editor.NotifierFunc(func(msg string) {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	})
	return editor.New(s.client(), editor.WithNotifier(notify), editor.WithSaveStrategy(s.SaveStrategy))
}

// beginEdit loads the content, logs in and enters editing mode.
func beginEdit(ctx context.Context, cmd *cobra.Command, s *Settings) (*editor.App, error) {
	password, err := resolvePassword(cmd, s)
	if err != nil {
		return nil, err
	}
	app := newApp(cmd, s)
	if err := app.Load(ctx); err != nil {
		return nil, err
	}
	if err := app.Login(ctx, s.Username, password); err != nil {
		return nil, err
	}
	if err := app.EnterEdit(); err != nil {
		return nil, err
	}
	return app, nil
}
