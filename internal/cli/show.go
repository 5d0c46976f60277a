package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newShowCmd(v *viper.Viper) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current site content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			doc, err := s.client().GetContent(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), doc, format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", FormatText, "output format: text, json, yaml or toml")
	return cmd
}
