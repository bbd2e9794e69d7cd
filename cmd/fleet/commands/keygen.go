package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stakeworks/fleet/src/config"
	"github.com/stakeworks/fleet/src/keys"
)

var keygenCount int

// NewKeygenCmd returns the command that pre-generates the identity pool.
// The pool's size caps the maximum network size; existing entries are never
// overwritten.
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keygen",
		Short:   "Pre-generate the identity pool",
		PreRunE: loadConfig,
		RunE:    keygen,
	}

	cmd.Flags().IntVar(&keygenCount, "count", config.DefaultPoolSize, "Number of identities in the pool")

	return cmd
}

func keygen(cmd *cobra.Command, args []string) error {
	pool := keys.NewPool(_config.Keys())

	if err := pool.Generate(keygenCount); err != nil {
		return err
	}

	fmt.Printf("Identity pool of %d keys in: %s\n", pool.Size(), pool.Dir())

	return nil
}
