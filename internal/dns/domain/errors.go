package domain

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dnsweeper/internal/domain"
)

// Provider failures are classified with the shared sentinels so retry and
// error reporting treat every provider alike.
var (
	ErrNotFound     = domain.ErrNotFound
	ErrUnauthorized = domain.ErrUnauthorized
	ErrRateLimited  = domain.ErrRateLimited

	// ErrZoneNotFound means the account has no zone for the requested domain.
	ErrZoneNotFound = fmt.Errorf("zone %w", domain.ErrNotFound)

	// ErrInvalidDomain is returned before any provider call for names that
	// cannot be a hosted zone.
	ErrInvalidDomain = errors.New("invalid domain name")
)
