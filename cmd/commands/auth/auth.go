// Package auth implements the "auth" command group for provider API
// credentials.
package auth

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "auth" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage DNS provider credentials",
		Long: `Store, inspect and remove the API tokens dnsweeper uses to read zones.

Tokens are kept in the OS keychain. Environment variables override the
keychain; run 'dnsweeper auth status' to see which ones apply. dnsweeper
only ever needs read access to DNS records.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
