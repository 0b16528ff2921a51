// Package history implements the "history" command group over locally
// saved scans.
package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/dnsweeper/internal/scanstore"

	"github.com/spf13/cobra"
)

var openStore = func(ctx context.Context) (scanstore.Repository, error) {
	return scanstore.Open(ctx)
}

// NewCommand returns the "history" command with its subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage saved scans",
		Long: `Every scan is saved to a local SQLite database unless --no-save is
given. Use these commands to list past scans, re-export one, or prune old
entries.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(DomainsCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

func withStore(cmd *cobra.Command, fn func(repo scanstore.Repository) error) error {
	repo, err := openStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("open scan history: %w", err)
	}
	defer repo.Close()
	return fn(repo)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// parseAge parses a duration that may also be given in whole days, e.g. "30d".
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
