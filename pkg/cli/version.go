package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincorehq/tellerguard/pkg/system"
)

func newVersionCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show tellerguard version",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(rt.Writer(), "%s %s (commit: %s, built: %s)\n",
				system.Name, system.Version, system.Commit, system.BuildTime)
			return nil
		},
	}
}
