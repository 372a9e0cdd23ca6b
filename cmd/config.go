package cmd

import (
	"fmt"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/iksnae/flux-workspace/internal/config"
	"github.com/spf13/cobra"
)

var configWrite bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration flux runs with, after the config file, FLUX_*
environment variables and flags have been applied.

With --write the result is saved to --config or the default location, which
is a quick way to create a config file to edit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configWrite {
			return config.Write(cfg, cmd.OutOrStdout())
		}

		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		internal.LogInfo("Wrote %s", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configWrite, "write", false, "Save the effective configuration to the config file")
}
