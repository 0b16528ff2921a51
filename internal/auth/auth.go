// Package auth stores and retrieves provider API credentials.
//
// Tokens live in the OS keychain. Environment variables take precedence so
// that dnsweeper can run unattended (CI, cron) without a keychain.
package auth

import (
	"errors"

	"nathanbeddoewebdev/dnsweeper/internal/util"
)

const ServiceName = "dnsweeper"

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store: environment variables first,
// then the OS keychain.
func DefaultStore() Store {
	return NewChainStore(NewEnvStore(), NewKeyringStore(ServiceName))
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}
