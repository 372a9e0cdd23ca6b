package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/flux-workspace/internal"
	"github.com/iksnae/flux-workspace/internal/export"
	"github.com/spf13/cobra"
)

var (
	showChapter int
	showLimit   int
	showRender  bool
	showWidth   int
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show messages for a specific session",
	Long: `Display the message history of a session.

With --chapter the history starts at that chapter's checkpoint, the same
view the workspace shows after a jump.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := lookupSession(args[0])
		if err != nil {
			return err
		}

		offset := 0
		if cmd.Flags().Changed("chapter") {
			ch, ok := session.Chapter(showChapter)
			if !ok {
				return fmt.Errorf("session %s has no chapter %d", session.ID, showChapter)
			}
			offset = internal.ClampOffset(ch.StartIndex, len(session.Messages))
		}
		view := export.Viewport(session, offset)

		total := len(view.Messages)
		if showLimit > 0 && showLimit < total {
			view.Messages = view.Messages[:showLimit]
		}

		out := cmd.OutOrStdout()
		if showRender {
			exporter := &export.MarkdownExporter{Render: true, Width: showWidth}
			return exporter.Export(view, out)
		}

		displaySessionHeader(out, session, offset)
		for i, msg := range view.Messages {
			displayMessage(out, offset+i+1, msg, len(session.Messages))
		}

		if remaining := total - len(view.Messages); remaining > 0 {
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more message(s))", remaining)))
		}
		return nil
	},
}

func displaySessionHeader(out io.Writer, session *internal.Session, offset int) {
	if session == nil {
		return
	}
	fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", session.Title)))

	metaParts := []string{
		fmt.Sprintf("ID: %s", session.ID),
		fmt.Sprintf("Messages: %d", len(session.Messages)),
		fmt.Sprintf("Chapters: %d", len(session.Chapters)),
	}
	if offset > 0 {
		metaParts = append(metaParts, fmt.Sprintf("From message %d", offset+1))
	}
	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index int, msg internal.Message, total int) {
	actorStyle := assistantMessageStyle
	actorLabel := "🤖 Assistant"
	if msg.Role == internal.RoleUser {
		actorStyle = userMessageStyle
		actorLabel = "👤 User"
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if msg.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
			header += " " + timestampStyle.Render(t.Format("15:04:05"))
		} else {
			header += " " + timestampStyle.Render(msg.Timestamp)
		}
	}
	fmt.Fprintln(out, header)

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	} else {
		fmt.Fprintln(out, messageContentStyle.Width(84).Render(content))
	}
	fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showChapter, "chapter", "c", 0, "Start at this chapter's checkpoint")
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().BoolVar(&showRender, "render", false, "Render the session as Markdown with glamour")
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Word wrap width for --render")
}
