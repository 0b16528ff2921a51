package auth

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/dnsweeper/internal/auth"
	dnsproviders "nathanbeddoewebdev/dnsweeper/internal/dns/providers"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newStore is swapped out in tests.
var newStore = auth.DefaultStore

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <provider>",
		Short: "Store an API token for a DNS provider",
		Long: `Store an API token for a DNS provider in the local keychain.

Porkbun needs both keys, joined as "<api-key>:<secret-key>".

Examples:
  dnsweeper auth login cloudflare
  dnsweeper auth login porkbun --token pk1_xxx:sk1_xxx`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			provider := auth.NormalizeProvider(args[0])
			if provider == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: provider is required")
				return
			}
			if err := validateProvider(provider); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			token, _ := cmd.Flags().GetString("token")
			token = strings.TrimSpace(token)
			if token == "" {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Error: --token is required when stdin is not a terminal")
					return
				}
				fmt.Fprint(cmd.OutOrStdout(), "Enter API token: ")
				bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
				token = strings.TrimSpace(string(bytes))
			}

			if token == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: token cannot be empty")
				return
			}

			if err := newStore().SetToken(provider, token); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved token for provider %s\n", provider)
		},
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}

func validateProvider(name string) error {
	for _, known := range dnsproviders.List() {
		if known == name {
			return nil
		}
	}
	return fmt.Errorf("unknown provider %q (available: %s)", name, strings.Join(dnsproviders.List(), ", "))
}
