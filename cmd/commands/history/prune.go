package history

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dnsweeper/internal/scanstore"

	"github.com/spf13/cobra"
)

// PruneCommand returns the "history prune" subcommand.
func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete saved scans older than a given age",
		Long: `Delete saved scans older than the given age. Domains left without any
scan are removed too.

Examples:
  dnsweeper history prune --older-than 30d
  dnsweeper history prune --older-than 12h`,
		Args:         cobra.NoArgs,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Age threshold, e.g. 30d, 72h (required)")

	return cmd
}

func runPrune(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	if raw == "" {
		return errors.New("--older-than is required")
	}
	age, err := parseAge(raw)
	if err != nil {
		return err
	}

	return withStore(cmd, func(repo scanstore.Repository) error {
		n, err := repo.Prune(cmd.Context(), age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d scan(s) older than %s.\n", n, raw)
		return nil
	})
}
