package cli

import "github.com/spf13/cobra"

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docqa version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("docqa " + version)
		},
	}
}
