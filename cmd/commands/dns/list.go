package dns

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/dnsweeper/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// ListCommand returns the "dns list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <domain>",
		Short: "List DNS records for a domain",
		Long: `List all DNS records for the given domain, as a scan would see them.

Examples:
  dnsweeper dns list example.com
  dnsweeper dns list example.com --type CNAME`,
		Args: cobra.ExactArgs(1),
		Run:  runList,
	}

	cmd.Flags().String("type", "", "Filter records by type (A, AAAA, CNAME, MX, TXT, etc.)")
	cmd.Flags().Bool("refresh", false, "Bypass the local listing cache")

	return cmd
}

func runList(cmd *cobra.Command, args []string) {
	domainName := args[0]
	typeFilter, _ := cmd.Flags().GetString("type")
	refresh, _ := cmd.Flags().GetBool("refresh")

	svc, err := cmdutil.NewDNSService(cmd, cmdutil.ServiceOptions{Cached: true, Refresh: refresh})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	records, err := svc.ListRecords(cmd.Context(), domainName)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error listing records: %v\n", err)
		return
	}

	if typeFilter != "" {
		filtered := records[:0]
		for _, r := range records {
			if strings.EqualFold(string(r.Type), typeFilter) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONTENT\tTTL\tPROXIED")
	fmt.Fprintln(w, "--\t----\t----\t-------\t---\t-------")

	for _, r := range records {
		ttl := ""
		if r.TTL > 0 {
			ttl = strconv.Itoa(r.TTL)
		}
		proxied := ""
		if r.Proxied != nil {
			proxied = strconv.FormatBool(*r.Proxied)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Name,
			string(r.Type),
			r.Content,
			ttl,
			proxied,
		)
	}

	w.Flush()
}
