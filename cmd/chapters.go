package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/flux-workspace/internal"
	"github.com/spf13/cobra"
)

var chaptersSummaries bool

var summaryStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("243")).
	Italic(true).
	PaddingLeft(4)

// systemClipboard is replaced in tests
var systemClipboard = func() internal.Clipboard { return internal.SystemClipboard{} }

// chaptersCmd represents the chapters command
var chaptersCmd = &cobra.Command{
	Use:   "chapters <session-id>",
	Short: "List the context checkpoints of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := lookupSession(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		chapters := internal.NewCheckpointIndex(session.Chapters).Chapters()
		if len(chapters) == 0 {
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🧭 %s has no checkpoints", session.ID)))
			return nil
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🧭 Workflow timeline: %s", session.Title)))
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("#")+"\t"+titleStyle.Render("Chapter")+"\t"+titleStyle.Render("From message")+"\t")
		for _, ch := range chapters {
			from := internal.ClampOffset(ch.StartIndex, len(session.Messages)) + 1
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n", idStyle.Render(strconv.Itoa(ch.ID)), ch.Title, countStyle.Render(strconv.Itoa(from)))
			if chaptersSummaries && ch.Summary != "" {
				_ = w.Flush()
				fmt.Fprintln(out, summaryStyle.Render("Smart Prompt: "+ch.Summary))
			}
		}
		return w.Flush()
	},
}

var copyStdout bool

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy <session-id> <chapter>",
	Short: "Copy a chapter's smart prompt to the clipboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapterID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid chapter %q: %w", args[1], err)
		}

		if copyStdout {
			session, err := lookupSession(args[0])
			if err != nil {
				return err
			}
			ch, ok := session.Chapter(chapterID)
			if !ok {
				return fmt.Errorf("session %s has no chapter %d", session.ID, chapterID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ch.Summary)
			return nil
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		cfg.DefaultSession = args[0]

		notifier := internal.NotifierFunc(func(kind internal.Kind, text string) {
			if kind == internal.KindSuccess {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ "+text)
			}
		})
		w, err := newWorkspace(reg, internal.NewManualScheduler(time.Now()), notifier, systemClipboard())
		if err != nil {
			return err
		}

		found, err := w.CopySummary(chapterID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("session %s has no chapter %d", args[0], chapterID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(copyCmd)
	chaptersCmd.Flags().BoolVarP(&chaptersSummaries, "summaries", "s", false, "Show each chapter's smart prompt")
	copyCmd.Flags().BoolVar(&copyStdout, "stdout", false, "Print the prompt instead of copying it")
}
