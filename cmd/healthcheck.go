package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/flux-workspace/internal"
	"github.com/spf13/cobra"
)

var healthcheckDetails bool

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// checkReport collects the outcome of each healthcheck step
type checkReport struct {
	out      io.Writer
	failures int
	warnings int
}

func (r *checkReport) step(n int, title string) {
	fmt.Fprintln(r.out, infoStyle.Render(fmt.Sprintf("Step %d: %s...", n, title)))
}

func (r *checkReport) ok(msg string) {
	fmt.Fprintln(r.out, successStyle.Render("✅ "+msg))
}

func (r *checkReport) warn(msg string) {
	r.warnings++
	fmt.Fprintln(r.out, warningStyle.Render("⚠️  "+msg))
}

func (r *checkReport) fail(msg string, err error) {
	r.failures++
	fmt.Fprintln(r.out, errorStyle.Render("❌ "+msg+":"), err)
}

func (r *checkReport) detail(format string, args ...interface{}) {
	if healthcheckDetails {
		fmt.Fprintf(r.out, "   "+format+"\n", args...)
	}
}

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:     "healthcheck",
	Aliases: []string{"doctor"},
	Short:   "Check that flux can load its settings and sessions",
	Long: `Check the health of flux by verifying:
  • Default path detection
  • Configuration (file, environment and flags)
  • Session catalog and database
  • Snapshot directory
  • Clipboard support for copying prompts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &checkReport{out: cmd.OutOrStdout()}
		fmt.Fprintln(r.out, sectionStyle.Render("🔍 Flux Health Check"))
		fmt.Fprintln(r.out)

		r.step(1, "Detecting default paths")
		if paths, err := internal.DetectPaths(); err != nil {
			r.warn(fmt.Sprintf("No default paths: %v", err))
		} else {
			r.ok("Default paths detected")
			r.detail("Config: %s (exists: %t)", paths.ConfigFile, paths.ConfigExists())
			r.detail("Database: %s (exists: %t)", paths.DatabasePath, paths.DatabaseExists())
			r.detail("State: %s", paths.StateDir)
		}
		fmt.Fprintln(r.out)

		r.step(2, "Checking configuration")
		r.ok(fmt.Sprintf("Configuration valid (reply policy: %s)", cfg.ReplyPolicy))
		r.detail("Reply delay: %s, sync reply delay: %s, toast TTL: %s", cfg.ReplyDelay, cfg.SyncReplyDelay, cfg.ToastTTL)
		fmt.Fprintln(r.out)

		r.step(3, "Loading sessions")
		reg, err := loadRegistry()
		switch {
		case err != nil:
			r.fail("Failed to load sessions", err)
		case reg.Len() == 0:
			r.warn("No sessions found")
		default:
			r.ok(fmt.Sprintf("Found %d session(s)", reg.Len()))
			for i, s := range reg.Sessions() {
				if i == 5 {
					r.detail("... and %d more", reg.Len()-5)
					break
				}
				r.detail("[%d] %s", i+1, s)
			}
			if cfg.DefaultSession != "" {
				if _, ok := reg.Lookup(cfg.DefaultSession); !ok {
					r.fail("Default session", &internal.SessionNotFoundError{ID: cfg.DefaultSession})
				}
			}
		}
		fmt.Fprintln(r.out)

		r.step(4, "Checking snapshots")
		if cfg.StateDir == "" {
			r.ok("Snapshots disabled")
		} else {
			store := internal.NewSnapshotStore(cfg.StateDir)
			if !store.Exists() {
				r.ok("No snapshot saved yet")
			} else if snap, err := store.Load(); err != nil {
				r.fail("Snapshot unreadable", err)
			} else {
				r.ok(fmt.Sprintf("Snapshot with %d session(s), saved %s", len(snap.Sessions), snap.SavedAt.Format("2006-01-02 15:04")))
			}
			r.detail("Directory: %s", store.Dir())
		}
		fmt.Fprintln(r.out)

		r.step(5, "Checking clipboard")
		if internal.SystemClipboardAvailable() {
			r.ok("Clipboard available")
		} else {
			r.warn("Clipboard not supported; use 'flux copy --stdout'")
		}
		fmt.Fprintln(r.out)

		fmt.Fprintln(r.out, sectionStyle.Render("📊 Summary"))
		if r.failures > 0 {
			fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("❌ Health check failed (%d problem(s))", r.failures)))
			return fmt.Errorf("health check failed: %d problem(s)", r.failures)
		}
		if r.warnings > 0 {
			fmt.Fprintln(r.out, warningStyle.Render(fmt.Sprintf("⚠️  Health check passed with %d warning(s)", r.warnings)))
			return nil
		}
		fmt.Fprintln(r.out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
