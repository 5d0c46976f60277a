package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
)

func newSetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one text field",
		Long: "Change one text field. KEY is one of: " + strings.Join(content.FieldKeys, ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !content.IsFieldKey(key) {
				return fmt.Errorf("unknown key %q (want one of %s)", key, strings.Join(content.FieldKeys, ", "))
			}
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			app, err := beginEdit(cmd.Context(), cmd, s)
			if err != nil {
				return err
			}
			if err := app.SetField(key, value); err != nil {
				return err
			}
			return app.Save(cmd.Context())
		},
	}
}

func newSetServiceCmd(v *viper.Viper) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "set-service INDEX",
		Short: "Change the name or description of a service",
		Long:  "Change the name or description of a service. INDEX counts from 1 in display order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil || index < 1 {
				return fmt.Errorf("invalid service index %q", args[0])
			}
			nameSet := cmd.Flags().Changed("name")
			descSet := cmd.Flags().Changed("description")
			if !nameSet && !descSet {
				return errors.New("nothing to change: pass --name and/or --description")
			}
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			app, err := beginEdit(cmd.Context(), cmd, s)
			if err != nil {
				return err
			}
			if nameSet {
				if err := app.SetServiceName(index-1, name); err != nil {
					return err
				}
			}
			if descSet {
				if err := app.SetServiceDescription(index-1, description); err != nil {
					return err
				}
			}
			return app.Save(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new service name")
	cmd.Flags().StringVar(&description, "description", "", "new service description")
	return cmd
}
