package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hairbystephanie/site/backend/go-services/internal/editor"
	"github.com/hairbystephanie/site/backend/go-services/internal/tui"
)

func newEditCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive editor",
		Long: `Open the interactive editor.

Controls:
  l          - Log in
  e          - Edit
  o          - Log out
  tab        - Next field
  shift+tab  - Previous field
  ctrl+s     - Save
  ctrl+r     - Discard unsaved changes
  esc        - Leave the dialog or stop editing
  q          - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			// The TUI shows notifications itself.
			app := editor.New(s.client(), editor.WithSaveStrategy(s.SaveStrategy))
			model := tui.New(app).WithContext(cmd.Context())

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}
			return nil
		},
	}
}
