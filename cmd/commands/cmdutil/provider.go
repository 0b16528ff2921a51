// Package cmdutil holds the command plumbing shared by the dns, scan and
// history commands.
package cmdutil

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/dnsweeper/internal/cache"
	"nathanbeddoewebdev/dnsweeper/internal/config"
	dnsproviders "nathanbeddoewebdev/dnsweeper/internal/dns/providers"
	"nathanbeddoewebdev/dnsweeper/internal/dns/services"
	"nathanbeddoewebdev/dnsweeper/internal/logging"

	"github.com/spf13/cobra"
)

// EnvDisableCache turns off the listing cache for dns commands.
const EnvDisableCache = "DNSWEEPER_DISABLE_DNS_CACHE"

// AddProviderFlag registers the --provider persistent flag on cmd.
func AddProviderFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String("provider", "", "DNS provider to use (overrides the dns-provider config key)")
}

// ResolveProvider ensures the --provider flag has a value, falling back to
// the dns-provider config key when the flag was not explicitly set.
func ResolveProvider(cmd *cobra.Command, _ []string) error {
	flag := cmd.Flag("provider")
	if flag == nil {
		return fmt.Errorf("command %q has no --provider flag", cmd.Name())
	}
	if flag.Changed && flag.Value.String() != "" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DNSProvider != "" {
		if err := flag.Value.Set(cfg.DNSProvider); err != nil {
			return fmt.Errorf("failed to set provider flag: %w", err)
		}
		return nil
	}

	return fmt.Errorf("no DNS provider specified: use --provider or set a default with 'dnsweeper config set dns-provider <name>'")
}

// ServiceOptions tunes NewDNSService.
type ServiceOptions struct {
	// Cached enables the on-disk listing cache.
	Cached bool
	// Refresh bypasses cached reads.
	Refresh bool
}

// NewDNSService builds the record source for the provider named by the
// --provider flag.
func NewDNSService(cmd *cobra.Command, opts ServiceOptions) (*services.Service, error) {
	providerName := cmd.Flag("provider").Value.String()
	provider, err := dnsproviders.Get(providerName, nil)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(cmd.Context()).WithName("dns").WithValues("provider", providerName)
	svcOpts := []services.Option{services.WithLogger(log)}
	if opts.Cached && os.Getenv(EnvDisableCache) != "1" {
		svcOpts = append(svcOpts,
			services.WithCache(cache.NewDefault()),
			services.WithRefresh(opts.Refresh),
		)
	}
	return services.New(provider, svcOpts...), nil
}
