package cmd

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/dnsweeper/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/dnsweeper/cmd/commands/config"
	"nathanbeddoewebdev/dnsweeper/cmd/commands/dns"
	"nathanbeddoewebdev/dnsweeper/cmd/commands/history"
	"nathanbeddoewebdev/dnsweeper/cmd/commands/scan"
	"nathanbeddoewebdev/dnsweeper/internal/config"
	dnsproviders "nathanbeddoewebdev/dnsweeper/internal/dns/providers"
	"nathanbeddoewebdev/dnsweeper/internal/logging"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	// scan and dns resolve their provider in their own pre-run hooks; the
	// root logging hook must still run first.
	cobra.EnableTraverseRunHooks = true

	var cmd = &cobra.Command{
		Use:   "dnsweeper",
		Short: "Find stale and redundant records in your DNS zones",
		Long: `dnsweeper fetches the records of a domain from your DNS provider and
checks each one for signs that it is garbage: names that no longer resolve,
CNAME chains that lead nowhere, records shadowed by a wildcard or a higher
priority duplicate, and names that look temporary. Nothing is ever changed
at the provider.

Supported providers: Cloudflare, Porkbun.

Quick start:
  dnsweeper auth login cloudflare          # Store your API token
  dnsweeper config set dns-provider cloudflare
  dnsweeper scan example.com               # Analyse a domain
  dnsweeper history list                   # Browse saved scans`,
		PersistentPreRunE: setupLogging,
	}

	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config, else warn)")
	cmd.PersistentFlags().String("log-format", "", "Log format: console or json (default from config, else console)")

	cmd.AddCommand(scan.NewCommand())
	cmd.AddCommand(history.NewCommand())
	cmd.AddCommand(dns.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())

	return cmd
}

// setupLogging builds the process logger from flags and config and stores
// it in the command context.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	if level == "" || format == "" {
		if cfg, err := config.Load(); err == nil {
			if level == "" {
				level = cfg.LogLevel
			}
			if format == "" {
				format = cfg.LogFormat
			}
		}
	}

	log, err := logging.New(logging.Options{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	cmd.SetContext(logging.IntoContext(cmd.Context(), log))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	dnsproviders.RegisterDefaults()

	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
