// Package config loads flux settings.
//
// Values are layered in this order, later sources winning:
//   - built-in defaults
//   - config.toml (DetectPaths().ConfigFile unless --config is given)
//   - FLUX_* environment variables
//   - command-line flags, applied by the caller
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/iksnae/flux-workspace/internal"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv
const EnvPrefix = "FLUX_"

// Config is the complete flux configuration
type Config struct {
	ReplyDelay     time.Duration        `toml:"reply_delay" env:"REPLY_DELAY"`
	SyncReplyDelay time.Duration        `toml:"sync_reply_delay" env:"SYNC_REPLY_DELAY"`
	ToastTTL       time.Duration        `toml:"toast_ttl" env:"TOAST_TTL"`
	PreviewLength  int                  `toml:"preview_length" env:"PREVIEW_LENGTH"`
	ReplyPolicy    internal.ReplyPolicy `toml:"reply_policy" env:"REPLY_POLICY"`

	// DefaultSession is activated on start; empty means the first session
	DefaultSession string `toml:"default_session" env:"DEFAULT_SESSION"`
	StartOffline   bool   `toml:"start_offline" env:"START_OFFLINE"`

	// CatalogPath is a YAML catalog; empty means the built-in catalog
	CatalogPath  string `toml:"catalog" env:"CATALOG"`
	WatchCatalog bool   `toml:"watch_catalog" env:"WATCH_CATALOG"`
	DatabasePath string `toml:"database" env:"DB"`
	// StateDir enables snapshots when set
	StateDir string `toml:"state_dir" env:"STATE_DIR"`
	// LogLevel is debug, info, warn or error; --verbose overrides it
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`

	Texts internal.Texts `toml:"texts" envPrefix:"TEXT_"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ReplyDelay:     internal.DefaultReplyDelay,
		SyncReplyDelay: internal.DefaultSyncReplyDelay,
		ToastTTL:       internal.DefaultToastTTL,
		PreviewLength:  internal.DefaultPreviewLength,
		ReplyPolicy:    internal.ReplyToActive,
		LogLevel:       "info",
		Texts:          internal.DefaultTexts(),
	}
}

// DefaultPath returns the config file location for this OS
func DefaultPath() (string, error) {
	paths, err := internal.DetectPaths()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// Load builds the effective configuration. With an empty path the default
// location is used and a missing file is not an error; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			internal.LogDebug("No default config location: %v", err)
		}
		path = p
	}

	if path != "" {
		err := LoadTOML(cfg, path)
		switch {
		case err == nil:
			internal.LogDebug("Loaded config from %s", path)
		case !explicit && errors.Is(err, fs.ErrNotExist):
			internal.LogDebug("No config file at %s, using defaults", path)
		default:
			return nil, err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys the file sets replace the
// current values; keys it omits are left alone.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return &internal.ParseError{Source: "config", Key: path, Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		internal.LogWarn("Unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides cfg from FLUX_* environment variables
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Write encodes cfg as TOML
func Write(cfg *Config, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Save writes cfg to path, creating the directory if needed
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &internal.StorageError{Path: path, Op: "write", Err: err}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &internal.StorageError{Path: path, Op: "write", Err: err}
	}
	defer file.Close()

	fmt.Fprintln(file, "# flux configuration file")
	fmt.Fprintln(file, "")
	return Write(cfg, file)
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate rejects negative durations, a negative preview length, unknown
// log levels, a sync reply template that does not take exactly one %s, and
// reply policies outside the known set
func (c *Config) Validate() error {
	var errs ValidateErrors

	durations := []struct {
		field string
		value time.Duration
	}{
		{"reply_delay", c.ReplyDelay},
		{"sync_reply_delay", c.SyncReplyDelay},
		{"toast_ttl", c.ToastTTL},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, ValidationError{Field: d.field, Message: fmt.Sprintf("must not be negative, got %s", d.value)})
		}
	}

	if c.PreviewLength < 0 {
		errs = append(errs, ValidationError{Field: "preview_length", Message: fmt.Sprintf("must not be negative, got %d", c.PreviewLength)})
	}

	switch c.ReplyPolicy {
	case internal.ReplyToActive, internal.ReplyToOrigin, internal.CancelOnSwitch:
	default:
		errs = append(errs, ValidationError{Field: "reply_policy", Message: fmt.Sprintf("unknown policy %d", c.ReplyPolicy)})
	}

	if c.LogLevel != "" {
		if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			errs = append(errs, ValidationError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)})
		}
	}

	if c.Texts.SyncReply != "" {
		if err := internal.CheckSyncReply(c.Texts.SyncReply); err != nil {
			errs = append(errs, ValidationError{Field: "texts.sync_reply", Message: err.Error()})
		}
	}

	if c.WatchCatalog && c.CatalogPath == "" {
		errs = append(errs, ValidationError{Field: "watch_catalog", Message: "requires a catalog path"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// WorkspaceOptions returns the workspace settings carried by the config.
// Collaborators (registry, scheduler, notifier) are left for the caller.
func (c *Config) WorkspaceOptions() internal.Options {
	return internal.Options{
		ReplyDelay:     c.ReplyDelay,
		SyncReplyDelay: c.SyncReplyDelay,
		PreviewLength:  c.PreviewLength,
		Policy:         c.ReplyPolicy,
		Texts:          c.Texts,
		InitialSession: c.DefaultSession,
		StartOffline:   c.StartOffline,
	}
}
