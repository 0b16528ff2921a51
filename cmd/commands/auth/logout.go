package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dnsweeper/internal/auth"

	"github.com/spf13/cobra"
)

// LogoutCommand returns the "auth logout" subcommand.
func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <provider>",
		Short: "Remove the stored API token for a DNS provider",
		Long: `Remove the API token stored in the keychain for a DNS provider.
Tokens supplied through environment variables are not affected.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			provider := auth.NormalizeProvider(args[0])

			err := newStore().DeleteToken(provider)
			switch {
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "No stored token for provider %s\n", provider)
			case err != nil:
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Removed token for provider %s\n", provider)
			}
		},
	}
}
