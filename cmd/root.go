package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/iksnae/flux-workspace/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	configPath   string
	catalogPath  string
	databasePath string
	stateDir     string
	watchCatalog bool
	version      string = "dev"
	commit       string = "unknown"
	date         string = "unknown"

	// cfg is the effective configuration, loaded before every command runs
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flux",
	Short: "A resilient chat workspace for technical sessions",
	Long: `flux is a terminal chat workspace that keeps working when the network doesn't.

Go offline and your next message is cached as a draft. Come back online and
flux offers to sync it. Long sessions are split into chapters you can jump
between, and every chapter carries a summary you can copy as a prompt.

Features:
  • Full-screen workspace with online/offline modes
  • Single-slot draft cache with recovery on reconnect
  • Chapter timeline with jump-to-context and prompt copying
  • Session catalogs in YAML, imported into SQLite
  • Export in multiple formats (JSONL, Markdown, YAML, JSON)

Quick Start:
  flux run                          # Open the workspace
  flux sessions                     # List available sessions
  flux chapters react               # List the checkpoints of a session
  flux export --session ai -f md    # Export a session as Markdown

Settings are read from config.toml and FLUX_* environment variables.
Run 'flux config' to print the effective configuration.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(loaded)
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}
		if !verbose && loaded.LogLevel != "" {
			if err := internal.SetLogLevel(loaded.LogLevel); err != nil {
				return err
			}
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlagOverrides layers the persistent flags over the loaded config
func applyFlagOverrides(c *config.Config) {
	if catalogPath != "" {
		c.CatalogPath = catalogPath
	}
	if databasePath != "" {
		c.DatabasePath = databasePath
	}
	if stateDir != "" {
		c.StateDir = stateDir
	}
	if watchCatalog {
		c.WatchCatalog = true
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the platform config directory)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Session catalog in YAML (default is the built-in catalog)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "SQLite session database to merge into the catalog")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory for workspace snapshots")
	rootCmd.PersistentFlags().BoolVar(&watchCatalog, "watch", false, "Reload the catalog file when it changes")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
