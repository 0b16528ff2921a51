package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted by user")

// DomainLister is the part of the DNS service the picker needs.
type DomainLister interface {
	ListDomains(ctx context.Context) ([]dnsdomain.Domain, error)
}

// PickDomain fetches the domains in the provider account behind a spinner
// and asks the user to choose one to scan.
func PickDomain(ctx context.Context, lister DomainLister) (string, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var domains []dnsdomain.Domain
	fetchErr := spinner.New().
		Title("Fetching domains...").
		Accessible(accessible).
		Output(os.Stderr).
		Context(ctx).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			domains, err = lister.ListDomains(ctx)
			return err
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return "", ErrAborted
		}
		return "", fetchErr
	}

	if len(domains) == 0 {
		return "", fmt.Errorf("no domains found in the provider account")
	}

	var selected string
	opts := buildDomainOptions(domains)
	field := huh.NewSelect[string]().
		Title("Select a domain to scan").
		Options(opts...).
		Value(&selected).
		Height(min(max(len(opts)+2, 5), 14))

	err := huh.NewForm(huh.NewGroup(field)).WithAccessible(accessible).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	return selected, nil
}

func buildDomainOptions(domains []dnsdomain.Domain) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(domains))
	for _, d := range domains {
		options = append(options, huh.NewOption(domainOptionLabel(d), d.Name))
	}
	return options
}

func domainOptionLabel(d dnsdomain.Domain) string {
	parts := []string{d.Name}
	if d.Status != "" {
		parts = append(parts, strings.ToLower(d.Status))
	}
	if d.ExpireDate != "" {
		parts = append(parts, "expires "+d.ExpireDate)
	}
	if len(parts) == 1 {
		return d.Name
	}
	return parts[0] + " (" + strings.Join(parts[1:], ", ") + ")"
}
