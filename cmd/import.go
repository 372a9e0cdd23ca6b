package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [catalog.yaml]",
	Short: "Import a session catalog into the SQLite database",
	Long: `Normalize the sessions of a catalog and store them in the workspaceKV
table of a SQLite database. Without an argument the configured catalog (or
the built-in one) is imported.

The database is --db, the database setting, or the default location.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.CatalogPath
		if len(args) > 0 {
			source = args[0]
		}

		dbPath := cfg.DatabasePath
		if dbPath == "" {
			paths, err := internal.DetectPaths()
			if err != nil {
				return fmt.Errorf("failed to detect paths: %w", err)
			}
			dbPath = paths.DatabasePath
		}

		var sessions []*internal.Session
		steps := []internal.ProgressStep{
			{
				Message: "Loading catalog",
				Fn: func() error {
					catalog := internal.BuiltinCatalog()
					if source != "" {
						loaded, err := internal.LoadCatalogFile(source)
						if err != nil {
							return err
						}
						catalog = loaded
					}
					sessions = catalog.Registry().Sessions()
					if len(sessions) == 0 {
						return fmt.Errorf("catalog holds no valid sessions")
					}
					return nil
				},
			},
			{
				Message: "Writing sessions to " + dbPath,
				Fn: func() error {
					if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
						return &internal.StorageError{Path: dbPath, Op: "write", Err: err}
					}
					db, err := internal.OpenWritableDatabase(dbPath)
					if err != nil {
						return err
					}
					defer db.Close()
					return internal.NewStorage(db).SaveSessions(sessions)
				},
			},
		}

		if err := internal.ShowProgressWithSteps(cmd.Context(), steps); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d session(s) into %s\n", len(sessions), dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
