package dns

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/dnsweeper/cmd/commands/cmdutil"
	"nathanbeddoewebdev/dnsweeper/internal/scanstore"
	"nathanbeddoewebdev/dnsweeper/internal/util"

	"github.com/spf13/cobra"
)

// DomainsCommand returns the "dns domains" subcommand.
func DomainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List domains in the provider account",
		Long: `List all domains in the DNS provider account, with the time each was
last scanned on this machine.

Example:
  dnsweeper dns domains --provider porkbun`,
		Args: cobra.NoArgs,
		Run:  runDomains,
	}

	cmd.Flags().Bool("refresh", false, "Bypass the local listing cache")

	return cmd
}

func runDomains(cmd *cobra.Command, args []string) {
	refresh, _ := cmd.Flags().GetBool("refresh")

	svc, err := cmdutil.NewDNSService(cmd, cmdutil.ServiceOptions{Cached: true, Refresh: refresh})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	domains, err := svc.ListDomains(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error listing domains: %v\n", err)
		return
	}

	if len(domains) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No domains found.")
		return
	}

	lastScans := lastScanTimes(cmd.Context())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSTATUS\tEXPIRES\tLAST SCAN")
	fmt.Fprintln(w, "------\t------\t-------\t---------")

	for _, d := range domains {
		last := "never"
		if t, ok := lastScans[util.NormalizeHost(d.Name)]; ok {
			last = t.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Status, d.ExpireDate, last)
	}

	w.Flush()
}

// lastScanTimes maps domain names to their most recent saved scan. History
// is best effort here; an unreadable store just leaves the column empty.
func lastScanTimes(ctx context.Context) map[string]time.Time {
	out := map[string]time.Time{}
	repo, err := openHistory(ctx)
	if err != nil {
		return out
	}
	defer repo.Close()

	entries, err := repo.Domains(ctx)
	if err != nil {
		return out
	}
	for _, e := range entries {
		out[e.Name] = e.LastScan
	}
	return out
}

var openHistory = func(ctx context.Context) (scanstore.Repository, error) {
	return scanstore.Open(ctx)
}
