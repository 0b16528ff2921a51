package auth

import (
	"errors"
	"os"
	"strings"
)

// ErrReadOnly is returned when writing to a store that cannot persist tokens.
var ErrReadOnly = errors.New("auth store is read-only")

// wellKnownEnv maps provider keys to the variable names their own tooling
// already uses, checked before the DNSWEEPER_ prefixed form.
var wellKnownEnv = map[string]string{
	"cloudflare": "CLOUDFLARE_API_TOKEN",
}

// EnvStore reads tokens from environment variables. For provider key
// "porkbun-apikey" it reads DNSWEEPER_PORKBUN_APIKEY_TOKEN.
type EnvStore struct {
	lookup func(string) (string, bool)
}

func NewEnvStore() *EnvStore {
	return &EnvStore{lookup: os.LookupEnv}
}

// EnvVar returns the DNSWEEPER_ prefixed variable name for a provider key.
func EnvVar(provider string) string {
	key := strings.ToUpper(NormalizeProvider(provider))
	key = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(key)
	return "DNSWEEPER_" + key + "_TOKEN"
}

// EnvVars returns every variable checked for a provider, in lookup order.
func EnvVars(provider string) []string {
	key := NormalizeProvider(provider)
	if name, ok := wellKnownEnv[key]; ok {
		return []string{name, EnvVar(key)}
	}
	return []string{EnvVar(key)}
}

func (e *EnvStore) GetToken(provider string) (string, error) {
	for _, name := range EnvVars(provider) {
		if v, ok := e.lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	return "", ErrTokenNotFound
}

func (e *EnvStore) SetToken(string, string) error { return ErrReadOnly }

func (e *EnvStore) DeleteToken(string) error { return ErrReadOnly }

// ChainStore reads from each store in order and writes to the last one.
type ChainStore struct {
	stores []Store
}

func NewChainStore(stores ...Store) *ChainStore {
	return &ChainStore{stores: stores}
}

func (c *ChainStore) GetToken(provider string) (string, error) {
	for _, s := range c.stores {
		token, err := s.GetToken(provider)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrTokenNotFound) {
			return "", err
		}
	}
	return "", ErrTokenNotFound
}

func (c *ChainStore) SetToken(provider string, token string) error {
	if len(c.stores) == 0 {
		return ErrReadOnly
	}
	return c.stores[len(c.stores)-1].SetToken(provider, token)
}

func (c *ChainStore) DeleteToken(provider string) error {
	if len(c.stores) == 0 {
		return ErrReadOnly
	}
	return c.stores[len(c.stores)-1].DeleteToken(provider)
}
