package history

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/dnsweeper/cmd/commands/cmdutil"
	"nathanbeddoewebdev/dnsweeper/internal/scanstore"
	"nathanbeddoewebdev/dnsweeper/internal/tui"
	"nathanbeddoewebdev/dnsweeper/internal/util"

	"github.com/spf13/cobra"
)

// ShowCommand returns the "history show" subcommand.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id|domain>",
		Short: "Show or re-export a saved scan",
		Long: `Show a saved scan by ID, or by ID prefix of at least four characters.
Given a domain name instead, the most recent scan of that domain is shown.

Examples:
  dnsweeper history show 3f9c2a1b
  dnsweeper history show example.com --format xlsx`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("format", "f", cmdutil.FormatTable, "Output format: "+strings.Join(cmdutil.FormatNames(), ", "))
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().Bool("all", false, "Include every record, not only garbage, in tabular output")
	cmd.Flags().Bool("browse", false, "Open the interactive results browser")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	var opts cmdutil.OutputOptions
	opts.Format, _ = cmd.Flags().GetString("format")
	opts.Output, _ = cmd.Flags().GetString("output")
	opts.All, _ = cmd.Flags().GetBool("all")
	browse, _ := cmd.Flags().GetBool("browse")

	if err := cmdutil.ValidateFormat(opts.Format); err != nil {
		return err
	}

	return withStore(cmd, func(repo scanstore.Repository) error {
		scan, err := repo.Get(cmd.Context(), args[0])
		if errors.Is(err, scanstore.ErrNotFound) && strings.Contains(args[0], ".") {
			scan, err = repo.Latest(cmd.Context(), util.NormalizeHost(args[0]))
		}
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		if browse {
			return tui.RunResultsBrowser(scan.Result, scan.Provider)
		}

		path, err := cmdutil.WriteResult(cmd, scan.Result, opts)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		}
		return nil
	})
}
