package commands

import (
	"github.com/spf13/cobra"

	"github.com/stakeworks/fleet/src/fleet"
)

// NewStartCmd returns the command that starts the node service on every
// host and follows its logs. Non-bootstrap hosts wait a grace period so the
// bootstrap peer is reachable first; interrupting the orchestrator detaches
// without stopping the remote services.
func NewStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start HOST...",
		Short:   "Start the node service on every host, bootstrap peer first",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := broadcast(fleet.Start, args, false)
			return err
		},
	}

	cmd.Flags().Duration("start-delay", _config.StartDelay, "Grace period non-bootstrap hosts wait before starting")

	return cmd
}
