package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/spf13/cobra"
)

var (
	scriptStrict bool
	scriptState  bool
)

// scriptCmd represents the script command
var scriptCmd = &cobra.Command{
	Use:   "script [file]",
	Short: "Run workspace commands from a file or standard input",
	Long: `Feed lines to a workspace without the full-screen interface.

Each line is handled like input in 'flux run': plain text is submitted and
/commands act on the workspace. Time stands still between lines; use
/wait <duration> to let deferred replies arrive. Replies still pending at the
end of the script are delivered before exiting.

Blank lines and lines starting with # are skipped.

Example:
  printf '/offline\nfix the gas numbers\n/online\n/sync\n/wait 1s\n' | flux script`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			file, err := os.Open(args[0])
			if err != nil {
				return &internal.StorageError{Path: args[0], Op: "read", Err: err}
			}
			defer file.Close()
			in = file
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		scheduler := internal.NewManualScheduler(time.Now())
		notifier := internal.NotifierFunc(func(kind internal.Kind, text string) {
			fmt.Fprintf(out, "[%s] %s\n", kind, text)
		})
		opts := cfg.WorkspaceOptions()
		opts.Registry = reg
		opts.Scheduler = scheduler
		opts.Now = scheduler.Now
		opts.Notifier = notifier
		opts.Clipboard = systemClipboard()
		opts.OnReply = func(reply internal.PendingReply, msg internal.Message) {
			fmt.Fprintf(out, "< %s #%d (%s): %s\n", msg.Role, msg.ID, reply.SessionID, msg.Content)
		}
		w, err := internal.NewWorkspace(opts)
		if err != nil {
			return err
		}

		if err := runScript(w, scheduler, in, out); err != nil {
			return err
		}
		if n := scheduler.Flush(); n > 0 {
			internal.LogDebug("Delivered %d pending reply(s) at end of script", n)
		}

		if scriptState {
			st := w.State()
			draft, _ := st.Draft.Text()
			fmt.Fprintf(out, "state: session=%s mode=%s phase=%s start=%d timeline=%t draft=%q messages=%d\n",
				st.ActiveSessionID, st.Mode, st.Phase(), st.StartIndex, st.TimelineOpen, draft, len(w.Messages()))
		}
		return nil
	},
}

// runScript applies each input line to w, advancing scheduler on /wait
func runScript(w *internal.Workspace, scheduler *internal.ManualScheduler, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fmt.Fprintf(out, "> %s\n", trimmed)

		cmd, err := internal.ParseCommand(line)
		if err == nil {
			switch cmd.Kind {
			case internal.CmdQuit:
				return nil
			case internal.CmdHelp:
				fmt.Fprintln(out, internal.CommandHelp)
				continue
			case internal.CmdWait:
				scheduler.Advance(cmd.Wait)
				continue
			}
			var result string
			result, err = internal.Apply(w, cmd)
			if err == nil {
				fmt.Fprintln(out, result)
				continue
			}
		}

		if scriptStrict {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		fmt.Fprintf(out, "error: %v\n", err)
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().BoolVar(&scriptStrict, "strict", false, "Stop at the first line that fails")
	scriptCmd.Flags().BoolVar(&scriptState, "state", false, "Print the final workspace state")
}
