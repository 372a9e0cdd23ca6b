package cmd

import (
	"fmt"

	"github.com/iksnae/flux-workspace/internal"
)

// loadCatalog returns the configured catalog's sessions, or the built-in
// ones when no catalog is set
func loadCatalog() (*internal.MemoryRegistry, error) {
	catalog := internal.BuiltinCatalog()
	if cfg.CatalogPath != "" {
		loaded, err := internal.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}
	reg := catalog.Registry()
	internal.LogDebug("Catalog provides %d session(s)", reg.Len())
	return reg, nil
}

// loadStored reads every session of the configured database. It returns
// nil when no database is set.
func loadStored() (*internal.MemoryRegistry, error) {
	if cfg.DatabasePath == "" {
		return nil, nil
	}

	db, err := internal.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	stored, err := internal.NewSQLiteRegistry(db)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions from %s: %w", cfg.DatabasePath, err)
	}
	// Copy everything out while db is open
	reg := internal.MergeRegistries(stored)
	internal.LogDebug("Database provides %d session(s)", reg.Len())
	return reg, nil
}

// combine merges stored sessions over catalog sessions. Stored sessions
// come first and win on ID clashes.
func combine(stored, catalog *internal.MemoryRegistry) *internal.MemoryRegistry {
	if stored == nil {
		return catalog
	}
	return internal.MergeRegistries(stored, catalog)
}

// loadRegistry builds the session registry from the configured sources
func loadRegistry() (*internal.MemoryRegistry, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	stored, err := loadStored()
	if err != nil {
		return nil, err
	}
	return combine(stored, catalog), nil
}

// lookupSession finds one session in the configured registry
func lookupSession(id string) (*internal.Session, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	session, ok := reg.Lookup(id)
	if !ok {
		return nil, &internal.SessionNotFoundError{ID: id}
	}
	return session, nil
}

// newWorkspace builds a workspace over reg with the configured options
func newWorkspace(reg internal.Registry, scheduler internal.Scheduler, notifier internal.Notifier, clip internal.Clipboard) (*internal.Workspace, error) {
	opts := cfg.WorkspaceOptions()
	opts.Registry = reg
	opts.Scheduler = scheduler
	opts.Notifier = notifier
	opts.Clipboard = clip
	if m, ok := scheduler.(*internal.ManualScheduler); ok {
		opts.Now = m.Now
	}
	return internal.NewWorkspace(opts)
}
