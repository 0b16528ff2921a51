package history

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/dnsweeper/internal/scanstore"

	"github.com/spf13/cobra"
)

// DomainsCommand returns the "history domains" subcommand.
func DomainsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "domains",
		Short:        "List every domain with saved scans",
		Args:         cobra.NoArgs,
		RunE:         runDomains,
		SilenceUsage: true,
	}
}

func runDomains(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, func(repo scanstore.Repository) error {
		entries, err := repo.Domains(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No scanned domains.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DOMAIN\tPROVIDER\tLAST SCAN\tSCANS")
		fmt.Fprintln(w, "------\t--------\t---------\t-----")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Name, e.Provider, formatTime(e.LastScan), e.ScanCount)
		}
		return w.Flush()
	})
}
