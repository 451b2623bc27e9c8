package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sqlchat-go/internal/config"
	"sqlchat-go/internal/version"
)

func newVersionCmd() *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("check") {
				fmt.Fprintf(out, "%s compatible with %s: %t\n", check, version.Get(), version.IsCompatible(check))
				return nil
			}

			info := config.DefaultAppInfo()
			fmt.Fprintf(out, "%s %s (commit: %s, built: %s, %s)\n",
				info.Name, info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
			return nil
		},
	}
	cmd.Flags().StringVar(&check, "check", "", "report whether the given version is compatible")
	return cmd
}
