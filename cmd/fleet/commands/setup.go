package commands

import (
	"github.com/spf13/cobra"

	"github.com/stakeworks/fleet/src/fleet"
)

// NewSetupCmd returns the command that installs the node service on every
// host by staging and executing the installer payload.
func NewSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "setup HOST...",
		Short:   "Stage and execute the installer payload on every host",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := broadcast(fleet.Setup, args, false)
			return err
		},
	}
}
