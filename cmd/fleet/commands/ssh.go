package commands

import (
	"github.com/spf13/cobra"

	"github.com/stakeworks/fleet/src/common"
	"github.com/stakeworks/fleet/src/fleet"
)

// NewSSHCmd returns the command that opens an interactive session on a
// single host.
func NewSSHCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ssh HOST",
		Short:   "Open an interactive session on one host",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return common.NewFleetErr(common.Configuration,
					"ssh takes exactly one host")
			}
			_, err := broadcast(fleet.SSH, args, true)
			return err
		},
	}
}
