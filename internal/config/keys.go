package config

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "dns-provider").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates value and applies it to the given Config (in memory
	// only; the caller is responsible for calling Save). An empty value
	// clears the key.
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "dns-provider",
		Description: "DNS provider used when --provider is not specified",
		Get:         func(cfg *Config) string { return cfg.DNSProvider },
		Set: func(cfg *Config, v string) error {
			cfg.DNSProvider = strings.ToLower(strings.TrimSpace(v))
			return nil
		},
	},
	{
		Name:        "concurrency",
		Description: "Records evaluated in parallel during a scan (default 5)",
		Get: func(cfg *Config) string {
			if cfg.Concurrency == 0 {
				return ""
			}
			return strconv.Itoa(cfg.Concurrency)
		},
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				cfg.Concurrency = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 100 {
				return fmt.Errorf("concurrency must be a number between 1 and 100, got %q", v)
			}
			cfg.Concurrency = n
			return nil
		},
	},
	{
		Name:        "resolvers",
		Description: "Comma-separated upstream DNS servers (host or host:port)",
		Get:         func(cfg *Config) string { return strings.Join(cfg.Resolvers, ",") },
		Set: func(cfg *Config, v string) error {
			cfg.Resolvers = SplitList(v)
			return nil
		},
	},
	{
		Name:        "log-level",
		Description: "Log verbosity: debug, info, warn or error",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			switch v {
			case "", "debug", "info", "warn", "error":
				cfg.LogLevel = v
				return nil
			}
			return fmt.Errorf("log-level must be one of debug, info, warn, error; got %q", v)
		},
	},
	{
		Name:        "log-format",
		Description: "Log output format: console or json",
		Get:         func(cfg *Config) string { return cfg.LogFormat },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			switch v {
			case "", "console", "json":
				cfg.LogFormat = v
				return nil
			}
			return fmt.Errorf("log-format must be console or json; got %q", v)
		},
	},
	{
		Name:        "naming-rules",
		Description: "Path to a YAML file of naming rules replacing the built-in set",
		Get:         func(cfg *Config) string { return cfg.NamingRules },
		Set: func(cfg *Config, v string) error {
			cfg.NamingRules = strings.TrimSpace(v)
			return nil
		},
	},
}

// SplitList splits a comma-separated value, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		maxLen = max(maxLen, len(k.Name))
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
