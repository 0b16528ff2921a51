package config

import (
	"fmt"
	"slices"
	"strings"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/heuristics"
	"nathanbeddoewebdev/dnsweeper/internal/config"
	dnsproviders "nathanbeddoewebdev/dnsweeper/internal/dns/providers"
	"nathanbeddoewebdev/dnsweeper/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. An empty value clears the key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  dnsweeper config set dns-provider cloudflare\n" +
			"  dnsweeper config set resolvers 9.9.9.9,1.1.1.1\n" +
			"  dnsweeper config set naming-rules ~/.config/dnsweeper/rules.yaml",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

// validators run before a value is stored, on top of the key's own checks.
var validators = map[string]func(value string) error{
	"dns-provider": validateProvider,
	"naming-rules": validateRulesFile,
}

func runSet(cmd *cobra.Command, args []string) {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	if validate, ok := validators[spec.Name]; ok && value != "" {
		if err := validate(value); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	if err := spec.Set(cfg, value); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	if stored := spec.Get(cfg); stored == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", spec.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, stored)
	}
}

// validateProvider checks that the given name is a registered provider.
func validateProvider(name string) error {
	known := dnsproviders.List()
	if slices.Contains(known, util.NormalizeKey(name)) {
		return nil
	}
	return fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(known, ", "))
}

// validateRulesFile loads the rules so a broken file is caught now rather
// than at the next scan.
func validateRulesFile(path string) error {
	rules, err := heuristics.LoadRules(path)
	if err != nil {
		return err
	}
	_, err = heuristics.NewNamingClassifier(rules)
	return err
}
