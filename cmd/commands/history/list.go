package history

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/dnsweeper/internal/scanstore"
	"nathanbeddoewebdev/dnsweeper/internal/util"

	"github.com/spf13/cobra"
)

// ListCommand returns the "history list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [domain]",
		Short: "List saved scans, newest first",
		Long: `List saved scans, newest first. Pass a domain to only show its scans.

Examples:
  dnsweeper history list
  dnsweeper history list example.com --limit 5`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of scans to show (0 for all)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	return withStore(cmd, func(repo scanstore.Repository) error {
		var (
			scans []scanstore.Scan
			err   error
		)
		if len(args) == 1 {
			scans, err = repo.ListByDomain(cmd.Context(), util.NormalizeHost(args[0]), limit)
		} else {
			scans, err = repo.List(cmd.Context(), limit)
		}
		if err != nil {
			return err
		}

		if len(scans) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No scans found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tDOMAIN\tPROVIDER\tSCANNED\tRECORDS\tGARBAGE\tSAFE\tREVIEW\tSAVINGS")
		fmt.Fprintln(w, "--\t------\t--------\t-------\t-------\t-------\t----\t------\t-------")
		for _, s := range scans {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t$%.2f\n",
				s.ShortID(),
				s.Domain,
				s.Provider,
				formatTime(s.ScanDate),
				s.Summary.TotalRecords,
				s.Summary.GarbageCount,
				s.Summary.SafeToDeleteCount,
				s.Summary.ReviewNeededCount,
				s.EstimatedMonthlySavings,
			)
		}
		return w.Flush()
	})
}
