package main

import (
	"os"

	cmd "github.com/stakeworks/fleet/cmd/fleet/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.NewSetupCmd(),
		cmd.NewProvisionCmd(),
		cmd.NewStartCmd(),
		cmd.NewStatusCmd(),
		cmd.NewLogsCmd(),
		cmd.NewSSHCmd(),
		cmd.NewKeygenCmd(),
		cmd.VersionCmd,
	)

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
