package auth

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/dnsweeper/internal/auth"
	dnsproviders "nathanbeddoewebdev/dnsweeper/internal/dns/providers"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status for DNS providers",
		Long: `Show which DNS providers have a token available, either in the
keychain or through an environment variable.

Example:
  dnsweeper auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore()

			names := dnsproviders.List()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers registered.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tSTATUS\tENV VARS")
			for _, provider := range names {
				_, err := store.GetToken(provider)
				status := "logged in"
				switch {
				case err == nil:
				case errors.Is(err, auth.ErrTokenNotFound):
					status = "not logged in"
				default:
					status = fmt.Sprintf("error (%v)", err)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", provider, status, strings.Join(auth.EnvVars(provider), ", "))
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}

	return cmd
}
