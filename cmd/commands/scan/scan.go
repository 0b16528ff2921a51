// Package scan implements the "scan" command: analyse every record of a
// domain and report the ones that look like garbage.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"nathanbeddoewebdev/dnsweeper/cmd/commands/cmdutil"
	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/heuristics"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/services"
	"nathanbeddoewebdev/dnsweeper/internal/config"
	"nathanbeddoewebdev/dnsweeper/internal/logging"
	"nathanbeddoewebdev/dnsweeper/internal/scanstore"
	"nathanbeddoewebdev/dnsweeper/internal/tui"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Hooks replaced in tests.
var (
	newEvaluatorFactory = services.NewEvaluatorFactory
	openStore           = func(ctx context.Context) (scanstore.Repository, error) { return scanstore.Open(ctx) }
	isTerminal          = func(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }
	now                 = time.Now
)

// NewCommand returns the "scan" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [domain]",
		Short: "Find stale and redundant DNS records in a domain",
		Long: `Fetch every record of a domain from the DNS provider and check each one:
does it still resolve, does its CNAME chain end somewhere, is it shadowed by
a wildcard or a higher priority duplicate, does its name look temporary.

Without a domain argument an interactive picker lists the domains in the
provider account.

The scan is read only: no record is ever changed at the provider. Results
are saved locally unless --no-save is given; see 'dnsweeper history'.

Examples:
  dnsweeper scan example.com
  dnsweeper scan example.com --format csv --output findings.csv
  dnsweeper scan example.com --format xlsx --all
  dnsweeper scan --provider porkbun`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: cmdutil.ResolveProvider,
		RunE:              runScan,
		SilenceUsage:      true,
	}

	cmdutil.AddProviderFlag(cmd)
	cmd.Flags().StringP("format", "f", cmdutil.FormatTable, "Output format: "+strings.Join(cmdutil.FormatNames(), ", "))
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().Bool("all", false, "Include every record, not only garbage, in tabular output")
	cmd.Flags().Bool("no-save", false, "Do not save the scan to local history")
	cmd.Flags().Int("concurrency", 0, "Records evaluated at once (default from config, else 5)")
	cmd.Flags().StringSlice("resolvers", nil, "Upstream DNS servers to query (default from config, else public resolvers)")
	cmd.Flags().Bool("browse", false, "Open the interactive results browser after the scan")

	return cmd
}

type scanOptions struct {
	provider    string
	output      cmdutil.OutputOptions
	noSave      bool
	browse      bool
	concurrency int
	settings    services.Settings
}

func runScan(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	log := logging.FromContext(ctx).WithName("scan")
	opts.settings.Log = log

	svc, err := cmdutil.NewDNSService(cmd, cmdutil.ServiceOptions{})
	if err != nil {
		return err
	}

	interactive := isTerminal(os.Stdin) && isTerminal(os.Stderr)

	var domainName string
	if len(args) == 1 {
		domainName = args[0]
	} else {
		if !interactive {
			return errors.New("a domain argument is required when not running in a terminal")
		}
		domainName, err = tui.PickDomain(ctx, svc)
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	analyzer := services.New(svc, newEvaluatorFactory(opts.settings),
		services.WithConcurrency(opts.concurrency),
		services.WithLogger(log),
	)

	started := now()
	var res *adomain.Result
	if interactive {
		res, err = tui.RunScanProgress(ctx, cmd.ErrOrStderr(), domainName, opts.provider,
			func(ctx context.Context, progress func(float64)) (*adomain.Result, error) {
				return analyzer.AnalyzeDomain(ctx, domainName, services.WithProgress(progress))
			})
		if errors.Is(err, tui.ErrScanAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Scan aborted.")
			return nil
		}
	} else {
		res, err = analyzer.AnalyzeDomain(ctx, domainName)
	}
	if err != nil {
		return fmt.Errorf("scan %s: %w", domainName, err)
	}
	took := now().Sub(started)

	if !opts.noSave {
		saveScan(ctx, cmd, log, scanstore.NewScan(opts.provider, res, took))
	}

	path, err := cmdutil.WriteResult(cmd, res, opts.output)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	}

	if opts.browse {
		if !interactive {
			return errors.New("--browse requires a terminal")
		}
		return tui.RunResultsBrowser(res, opts.provider)
	}
	return nil
}

// saveScan stores the scan in local history. Failures only warn; the
// analysis itself succeeded.
func saveScan(ctx context.Context, cmd *cobra.Command, log logr.Logger, scan *scanstore.Scan) {
	repo, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open scan history: %v\n", err)
		return
	}
	defer repo.Close()

	if err := repo.Save(ctx, scan); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not save scan: %v\n", err)
		return
	}
	log.V(1).Info("scan saved", "id", scan.ID)
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved scan %s\n", scan.ShortID())
}

func loadOptions(cmd *cobra.Command) (scanOptions, error) {
	var opts scanOptions
	opts.provider = cmd.Flag("provider").Value.String()
	opts.output.Format, _ = cmd.Flags().GetString("format")
	opts.output.Output, _ = cmd.Flags().GetString("output")
	opts.output.All, _ = cmd.Flags().GetBool("all")
	opts.noSave, _ = cmd.Flags().GetBool("no-save")
	opts.browse, _ = cmd.Flags().GetBool("browse")

	if err := cmdutil.ValidateFormat(opts.output.Format); err != nil {
		return opts, err
	}

	cfg, err := config.Load()
	if err != nil {
		return opts, fmt.Errorf("failed to load config: %w", err)
	}

	opts.concurrency = cfg.Concurrency
	if cmd.Flags().Changed("concurrency") {
		n, _ := cmd.Flags().GetInt("concurrency")
		if n < 1 || n > 100 {
			return opts, fmt.Errorf("--concurrency must be between 1 and 100, got %d", n)
		}
		opts.concurrency = n
	}

	opts.settings.Upstreams = cfg.Resolvers
	if cmd.Flags().Changed("resolvers") {
		opts.settings.Upstreams, _ = cmd.Flags().GetStringSlice("resolvers")
	}

	if cfg.NamingRules != "" {
		rules, err := heuristics.LoadRules(cfg.NamingRules)
		if err != nil {
			return opts, fmt.Errorf("load naming rules: %w", err)
		}
		opts.settings.NamingRules = rules
	}
	return opts, nil
}
