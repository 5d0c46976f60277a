package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

func newWhoamiCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check the admin credentials",
		Long:  "Log in, print the account the token belongs to, then revoke the token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			password, err := resolvePassword(cmd, s)
			if err != nil {
				return err
			}
			c := s.client()
			token, err := c.Login(cmd.Context(), s.Username, password)
			if err != nil {
				return err
			}
			name, err := c.Me(cmd.Context(), token)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			if err := c.Logout(cmd.Context(), token); err != nil {
				logger.Warnf("revoke token: %v", err)
			}
			return nil
		},
	}
}
