package config

import (
	"nathanbeddoewebdev/dnsweeper/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dnsweeper configuration",
		Long: "View and modify persistent dnsweeper settings.\n\n" +
			"Configuration is stored at ~/.config/dnsweeper/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
