package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/iksnae/flux-workspace/internal/tui"
	"github.com/spf13/cobra"
)

var (
	runSession string
	runOffline bool
	runFresh   bool
	runLogFile string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the full-screen workspace",
	Long: `Open the flux workspace.

Keys:
  enter      send the message (or run a /command)
  ctrl+o     toggle offline mode
  ctrl+r     sync the cached draft after reconnecting
  ctrl+t     open the workflow timeline
  ctrl+a     restore the full history after a jump
  tab        switch session
  esc        clear input, then quit

With a state directory configured, the workspace is restored on start and
saved on exit. Use --fresh to ignore the saved snapshot.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runSession != "" {
			cfg.DefaultSession = runSession
		}
		if runOffline {
			cfg.StartOffline = true
		}

		restoreLog, err := redirectLog(runLogFile)
		if err != nil {
			return err
		}
		defer restoreLog()

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		stored, err := loadStored()
		if err != nil {
			return err
		}

		loop := internal.NewLoop(64)
		defer loop.Stop()

		board := internal.NewToastBoard(cfg.ToastTTL, nil)
		notifier := internal.MultiNotifier{board, internal.LogNotifier{}}
		w, err := newWorkspace(combine(stored, catalog), loop, notifier, systemClipboard())
		if err != nil {
			return err
		}

		var store *internal.SnapshotStore
		if cfg.StateDir != "" {
			store = internal.NewSnapshotStore(cfg.StateDir)
			if !runFresh && store.Exists() {
				restoreSnapshot(w, store)
			}
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if cfg.WatchCatalog && cfg.CatalogPath != "" {
			watcher, err := internal.NewCatalogWatcher(cfg.CatalogPath, 0, func(reg *internal.MemoryRegistry) {
				merged := combine(stored, reg)
				loop.Post(func() { w.SetRegistry(merged) })
			})
			if err != nil {
				return err
			}
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					internal.LogWarn("Catalog watcher stopped: %v", err)
				}
			}()
		}

		model := tui.New(tui.Options{Workspace: w, Loop: loop, Toasts: board})
		runErr := tui.Run(ctx, model)

		// The TUI has returned, so nothing else touches w from here on
		loop.Stop()
		cancel()

		if store != nil {
			if err := store.Save(w.Snapshot()); err != nil {
				internal.LogError("Failed to save snapshot: %v", err)
			}
		}
		if errors.Is(runErr, context.Canceled) {
			return nil
		}
		return runErr
	},
}

// restoreSnapshot loads a saved workspace. A snapshot that cannot be read
// or no longer matches the registry is logged and ignored.
func restoreSnapshot(w *internal.Workspace, store *internal.SnapshotStore) {
	snap, err := store.Load()
	if err != nil {
		internal.LogWarn("Ignoring snapshot: %v", err)
		return
	}
	if err := w.Restore(snap); err != nil {
		internal.LogWarn("Ignoring snapshot: %v", err)
		return
	}
	internal.LogInfo("Restored workspace from %s", store.Dir())
}

// redirectLog keeps log lines off the full-screen display. They go to path
// when given and are discarded otherwise.
func redirectLog(path string) (func(), error) {
	if path == "" {
		internal.SetLogOutput(io.Discard)
		return func() { internal.SetLogOutput(nil) }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	internal.SetLogOutput(file)
	return func() {
		internal.SetLogOutput(nil)
		_ = file.Close()
	}, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runSession, "session", "s", "", "Session to open (default is the configured or first session)")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "Start in offline mode")
	runCmd.Flags().BoolVar(&runFresh, "fresh", false, "Ignore the saved snapshot")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Write log output to this file while the workspace is open")
}
