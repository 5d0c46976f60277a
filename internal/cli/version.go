package cli

import "github.com/spf13/cobra"

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("sitectl version %s\n", version)
		},
	}
}
