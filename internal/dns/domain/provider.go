package domain

import "context"

// Provider is the interface that DNS providers must implement.
// dnsweeper only ever reads from a provider; it never changes records.
type Provider interface {
	// GetDisplayName returns the human-readable provider name (e.g. "Cloudflare").
	GetDisplayName() string

	// ListDomains returns all domains registered in the provider account.
	ListDomains(ctx context.Context) ([]Domain, error)

	// ListRecords returns every DNS record for the given domain. Providers
	// that paginate must follow all pages before returning.
	ListRecords(ctx context.Context, domain string) ([]Record, error)
}
