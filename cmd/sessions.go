package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/flux-workspace/internal"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var sessionsIDsOnly bool

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"list", "ls"},
	Short:   "List available sessions",
	Long: `List the sessions of the configured catalog, merged with the SQLite
database when --db is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if sessionsIDsOnly {
			for _, id := range reg.IDs() {
				fmt.Fprintln(out, id)
			}
			return nil
		}
		displaySessions(out, reg.Sessions(), cfg.DefaultSession)
		return nil
	},
}

func displaySessions(out io.Writer, sessions []*internal.Session, defaultID string) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Chapters")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		title = runewidth.Truncate(title, 40, "...")

		id := s.ID
		if id == defaultID {
			id += " *"
		}

		chapters := dateStyle.Render("—")
		if len(s.Chapters) > 0 {
			chapters = countStyle.Render(strconv.Itoa(len(s.Chapters)))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", idStyle.Render(id), title, countStyle.Render(strconv.Itoa(len(s.Messages))), chapters)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use an ID with `flux show <id>` or `flux run --session <id>`"))
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().BoolVar(&sessionsIDsOnly, "ids", false, "Print session IDs only, one per line")
}
