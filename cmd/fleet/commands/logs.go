package commands

import (
	"github.com/spf13/cobra"

	"github.com/stakeworks/fleet/src/fleet"
)

// NewLogsCmd returns the command that follows the node service's log stream
// on every host, labeled per host.
func NewLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logs HOST...",
		Short:   "Follow the node service logs on every host",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := broadcast(fleet.Logs, args, false)
			return err
		},
	}
}
