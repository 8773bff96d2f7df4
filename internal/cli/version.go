package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/localbase"

// Version is the release version, set at build time with
// -ldflags "-X github.com/mesh-intelligence/localbase/internal/cli.Version=...".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the localbase version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "localbase %s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
