package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stakeworks/fleet/src/fleet"
)

// NewStatusCmd returns the command that queries every host's HTTP stats
// endpoint and pretty-prints the result per host.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status HOST...",
		Short:   "Query every host's stats endpoint",
		PreRunE: loadConfig,
		RunE:    status,
	}
}

func status(cmd *cobra.Command, args []string) error {
	results, err := broadcast(fleet.Status, args, false)

	for _, res := range results {
		if res.Err != nil {
			continue
		}

		pretty, perr := fleet.PrettyJSON(res.Output)
		if perr != nil {
			_config.Logger().WithField("prefix", res.Host.Address).
				WithField("error", perr).Error("Bad stats payload")
			if err == nil {
				err = perr
			}
			continue
		}

		fmt.Printf("--- %s\n%s\n", res.Host.Address, pretty)
	}

	return err
}
