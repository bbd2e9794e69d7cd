package commands

import (
	"github.com/spf13/cobra"

	"github.com/stakeworks/fleet/src/common"
	"github.com/stakeworks/fleet/src/fleet"
	"github.com/stakeworks/fleet/src/keys"
)

// NewProvisionCmd returns the command that assigns identities, renders
// per-host configuration, and pushes both to every host's config directory.
func NewProvisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "provision HOST...",
		Short:   "Push identities and rendered configuration to every host",
		PreRunE: loadConfig,
		RunE:    provision,
	}

	cmd.Flags().Duration("genesis-offset", _config.GenesisOffset, "How far in the future to set the genesis timestamp")

	return cmd
}

func provision(cmd *cobra.Command, args []string) error {
	hosts, err := fleet.ResolveHosts(args)
	if err != nil {
		return err
	}

	// All shared work happens here, sequentially, before any host is
	// touched: identity staging, the genesis timestamp, and the rendered
	// documents. A failure at this stage leaves every host untouched.
	provisioner := &fleet.Provisioner{
		Pool:          keys.NewPool(_config.Keys()),
		StagingDir:    _config.StagingDir,
		GossipPort:    _config.GossipPort,
		GenesisOffset: _config.GenesisOffset,
		Logger:        _config.Logger(),
	}

	if err := provisioner.Stage(hosts, _config.ChainspecTemplate(), _config.NodeConfigTemplate()); err != nil {
		return err
	}

	dispatcher := newDispatcher()

	build, err := dispatcher.CommandFor(fleet.Provision)
	if err != nil {
		return err
	}

	executor := &fleet.Executor{
		Logger: _config.Logger(),
		Hint:   dispatcher.ReconnectHint,
	}

	results := executor.Run(build, hosts)

	if fleet.ExitCode(results) != 0 {
		return common.NewFleetErr(common.RemoteExecution,
			"provision failed on one or more hosts")
	}

	return nil
}
