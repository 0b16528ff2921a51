// Package services wraps a DNS provider with the behaviour every caller
// wants: input normalisation, retries on transient failures and optional
// caching of listings.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"nathanbeddoewebdev/dnsweeper/internal/cache"
	"nathanbeddoewebdev/dnsweeper/internal/dns/domain"
	"nathanbeddoewebdev/dnsweeper/internal/retry"
	"nathanbeddoewebdev/dnsweeper/internal/util"
)

// Service sits between commands and a provider.
type Service struct {
	provider domain.Provider
	cache    *cache.Cache
	refresh  bool
	retry    retry.Config
	log      logr.Logger
}

type Option func(*Service)

// WithCache caches listings. Scans never pass this so they always see the
// live zone.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithRefresh bypasses cached reads while still updating the cache.
func WithRefresh(refresh bool) Option {
	return func(s *Service) {
		s.refresh = refresh
	}
}

func WithRetry(cfg retry.Config) Option {
	return func(s *Service) {
		s.retry = cfg
	}
}

func WithLogger(log logr.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

func New(provider domain.Provider, opts ...Option) *Service {
	svc := &Service{
		provider: provider,
		retry:    retry.DefaultConfig(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ProviderName returns the provider's display name.
func (s *Service) ProviderName() string {
	return s.provider.GetDisplayName()
}

// ListDomains returns every domain in the provider account.
func (s *Service) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	key := cacheKey(s.provider.GetDisplayName(), "domains")
	return cache.GetOrFetch(ctx, s.cache, key, s.refresh, func(ctx context.Context) ([]domain.Domain, error) {
		var out []domain.Domain
		err := s.withRetry(ctx, "list domains", func() error {
			var err error
			out, err = s.provider.ListDomains(ctx)
			return err
		})
		return out, err
	})
}

// ListRecords returns every record in domainName with names normalised.
func (s *Service) ListRecords(ctx context.Context, domainName string) ([]domain.Record, error) {
	domainName = util.NormalizeHost(domainName)
	if err := util.ValidateDomainName(domainName); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDomain, err)
	}

	key := cacheKey(s.provider.GetDisplayName(), "records", domainName)
	return cache.GetOrFetch(ctx, s.cache, key, s.refresh, func(ctx context.Context) ([]domain.Record, error) {
		var out []domain.Record
		err := s.withRetry(ctx, "list records", func() error {
			var err error
			out, err = s.provider.ListRecords(ctx, domainName)
			return err
		})
		if err != nil {
			return nil, err
		}
		return normalizeRecords(domainName, out), nil
	})
}

// Invalidate drops any cached listing for domainName.
func (s *Service) Invalidate(domainName string) error {
	return s.cache.Invalidate(cacheKey(s.provider.GetDisplayName(), "records", util.NormalizeHost(domainName)))
}

func (s *Service) withRetry(ctx context.Context, op string, fn func() error) error {
	cfg := s.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		s.log.V(1).Info("retrying provider call", "op", op, "attempt", attempt, "delay", delay.String(), "error", err.Error())
	}
	return retry.Do(ctx, cfg, isTransient, fn)
}

// isTransient reports whether a provider error is worth retrying.
func isTransient(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrNotFound) {
		return false
	}
	return retry.IsRetryable(err)
}

// normalizeRecords trims trailing dots, fills in the zone name when the
// provider omitted it and drops records without a name.
func normalizeRecords(domainName string, records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		r.Name = strings.TrimRight(strings.TrimSpace(r.Name), ".")
		if r.Name == "" {
			continue
		}
		if r.ZoneName == "" {
			r.ZoneName = domainName
		}
		r.Type = domain.RecordType(strings.ToUpper(string(r.Type)))
		out = append(out, r)
	}
	return out
}

func cacheKey(provider string, parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	if provider != "" {
		values = append(values, util.NormalizeKey(provider))
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		values = append(values, util.NormalizeKey(part))
	}
	if len(values) == 0 {
		return "dns"
	}
	return strings.Join(values, "_")
}

// String describes the service for log lines.
func (s *Service) String() string {
	return fmt.Sprintf("dns service (%s)", s.provider.GetDisplayName())
}
