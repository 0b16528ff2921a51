package dns

import (
	"nathanbeddoewebdev/dnsweeper/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "dns" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Inspect domains and records at a DNS provider",
		Long: `List the domains in your provider account and the records a scan would
see. dnsweeper never changes records at the provider.`,
		PersistentPreRunE: cmdutil.ResolveProvider,
	}

	cmd.AddCommand(DomainsCommand())
	cmd.AddCommand(ListCommand())

	cmdutil.AddProviderFlag(cmd)

	return cmd
}
