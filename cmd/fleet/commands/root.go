package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stakeworks/fleet/src/common"
	"github.com/stakeworks/fleet/src/config"
	"github.com/stakeworks/fleet/src/fleet"
)

var (
	_config = config.NewDefaultConfig()
)

func init() {
	RootCmd.PersistentFlags().String("datadir", _config.DataDir, "Top-level directory for templates, keys, and logs")
	RootCmd.PersistentFlags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	RootCmd.PersistentFlags().String("ssh-user", _config.SSHUser, "Remote account for ssh and scp")
	RootCmd.PersistentFlags().String("keys", _config.KeysDir, "Identity pool directory (default [datadir]/keys)")
	RootCmd.PersistentFlags().String("staging", _config.StagingDir, "Local staging directory for identities and rendered configs")
	RootCmd.PersistentFlags().String("confdir", _config.RemoteConfDir, "Node service configuration directory on the targets")
	RootCmd.PersistentFlags().String("service", _config.ServiceName, "Systemd unit of the node service")
	RootCmd.PersistentFlags().Int("gossip-port", _config.GossipPort, "Port peers gossip on")
	RootCmd.PersistentFlags().Int("service-port", _config.ServicePort, "Port of the node's HTTP stats endpoint")
}

// RootCmd is the root command for fleet. Hosts are supplied as trailing
// positional arguments, and their order is significant: position decides
// identity assignment and bootstrap election, so the same order must be used
// across all lifecycle actions for a given network.
var RootCmd = &cobra.Command{
	Use:              "fleet",
	Short:            "fleet provisioning orchestrator for validator networks",
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help()
		return common.NewFleetErr(common.Configuration, "an action is required")
	},
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

// Bind all flags and read the config into viper
func loadConfig(cmd *cobra.Command, args []string) error {
	// Register flags with viper. Include flags from this command and all
	// other persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	_config.SetDataDir(_config.DataDir)

	// look for config file in [datadir]/fleet.toml (.json, .yaml also work)
	viper.SetConfigName("fleet")
	viper.AddConfigPath(_config.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	_config.SetDataDir(_config.DataDir)

	_config.Logger().WithFields(logrus.Fields{
		"datadir":      _config.DataDir,
		"log":          _config.LogLevel,
		"ssh-user":     _config.SSHUser,
		"keys":         _config.Keys(),
		"staging":      _config.StagingDir,
		"confdir":      _config.RemoteConfDir,
		"service":      _config.ServiceName,
		"gossip-port":  _config.GossipPort,
		"service-port": _config.ServicePort,
	}).Debug("Config")

	return nil
}

/*******************************************************************************
* FANOUT
*******************************************************************************/

// broadcast resolves the host list and fans the action's command out to
// every host. It returns the per-host results along with an error when any
// host failed, so the process exits non-zero without hiding who succeeded.
func broadcast(action fleet.Action, args []string, interactive bool) ([]fleet.Result, error) {
	hosts, err := fleet.ResolveHosts(args)
	if err != nil {
		return nil, err
	}

	dispatcher := newDispatcher()

	build, err := dispatcher.CommandFor(action)
	if err != nil {
		return nil, err
	}

	executor := &fleet.Executor{
		Logger:      _config.Logger(),
		Hint:        dispatcher.ReconnectHint,
		Interactive: interactive,
	}

	results := executor.Run(build, hosts)

	if fleet.ExitCode(results) != 0 {
		return results, common.NewFleetErr(common.RemoteExecution,
			"command failed on one or more hosts")
	}

	return results, nil
}

func newDispatcher() *fleet.Dispatcher {
	return &fleet.Dispatcher{
		User:          _config.SSHUser,
		StagingDir:    _config.StagingDir,
		RemoteConfDir: _config.RemoteConfDir,
		ServiceName:   _config.ServiceName,
		ServicePort:   _config.ServicePort,
		StartDelay:    _config.StartDelay,
		Installer:     _config.Installer(),
	}
}
