package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandKind identifies a workspace command
type CommandKind int

const (
	CmdSubmit CommandKind = iota
	CmdOffline
	CmdOnline
	CmdToggle
	CmdTimeline
	CmdClose
	CmdJump
	CmdRestore
	CmdSync
	CmdSwitch
	CmdCopy
	CmdChapters
	CmdWait
	CmdHelp
	CmdQuit
)

var commandNames = map[string]CommandKind{
	"offline":  CmdOffline,
	"online":   CmdOnline,
	"toggle":   CmdToggle,
	"timeline": CmdTimeline,
	"close":    CmdClose,
	"jump":     CmdJump,
	"restore":  CmdRestore,
	"sync":     CmdSync,
	"switch":   CmdSwitch,
	"copy":     CmdCopy,
	"chapters": CmdChapters,
	"wait":     CmdWait,
	"help":     CmdHelp,
	"quit":     CmdQuit,
	"exit":     CmdQuit,
}

// CommandHelp lists the text commands
const CommandHelp = `/offline            go offline (input is cached)
/online             go online
/toggle             flip connectivity
/timeline           open the chapter navigator
/close              close the chapter navigator
/jump <chapter>     show history from a chapter
/restore            show the full history
/sync               recover the cached draft
/switch <session>   activate another session
/copy <chapter>     copy a chapter summary
/chapters           list chapters
/wait <duration>    let deferred replies arrive
/quit               leave
anything else       submit as a message`

// ErrUnknownCommand is returned for an unrecognized slash command
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed input line
type Command struct {
	Kind      CommandKind
	Text      string // submitted text or session ID
	ChapterID int
	Wait      time.Duration
}

// ParseCommand parses a line of input. Lines not starting with "/" are
// submissions, as are lines starting with "//" (with one slash removed).
func ParseCommand(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Kind: CmdSubmit, Text: line}, nil
	}
	if strings.HasPrefix(trimmed, "//") {
		return Command{Kind: CmdSubmit, Text: trimmed[1:]}, nil
	}

	fields := strings.Fields(trimmed[1:])
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: /", ErrUnknownCommand)
	}
	name := strings.ToLower(fields[0])
	kind, ok := commandNames[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: /%s", ErrUnknownCommand, name)
	}
	args := fields[1:]
	cmd := Command{Kind: kind}

	switch kind {
	case CmdJump, CmdCopy:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("/%s needs a chapter id", name)
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("/%s: invalid chapter id %q", name, args[0])
		}
		cmd.ChapterID = id
	case CmdSwitch:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("/switch needs a session id")
		}
		cmd.Text = args[0]
	case CmdWait:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("/wait needs a duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil || d < 0 {
			return Command{}, fmt.Errorf("/wait: invalid duration %q", args[0])
		}
		cmd.Wait = d
	default:
		if len(args) > 0 {
			return Command{}, fmt.Errorf("/%s takes no arguments", name)
		}
	}
	return cmd, nil
}

// Apply runs a workspace command and returns a one-line status. Wait,
// help and quit are host concerns and are rejected here.
func Apply(w *Workspace, cmd Command) (string, error) {
	switch cmd.Kind {
	case CmdSubmit:
		return "submit: " + w.Submit(cmd.Text).String(), nil
	case CmdOffline:
		w.SetMode(ModeOffline)
		return "mode: offline", nil
	case CmdOnline:
		w.SetMode(ModeOnline)
		if w.State().Phase() == PhaseOnlinePendingRecovery {
			return "mode: online (draft waiting, /sync to recover)", nil
		}
		return "mode: online", nil
	case CmdToggle:
		return "mode: " + w.ToggleOfflineMode().String(), nil
	case CmdTimeline:
		w.OpenTimeline()
		return "timeline: open", nil
	case CmdClose:
		w.CloseTimeline()
		return "timeline: closed", nil
	case CmdJump:
		if !w.JumpToChapter(cmd.ChapterID) {
			return fmt.Sprintf("jump: no chapter %d", cmd.ChapterID), nil
		}
		return fmt.Sprintf("jump: chapter %d, showing %d of %d messages", cmd.ChapterID, len(w.Visible()), len(w.Messages())), nil
	case CmdRestore:
		w.RestoreFullHistory()
		return fmt.Sprintf("restore: showing %d messages", len(w.Visible())), nil
	case CmdSync:
		if !w.SyncDraft() {
			return "sync: nothing to recover", nil
		}
		return "sync: draft recovered", nil
	case CmdSwitch:
		if err := w.SwitchSession(cmd.Text); err != nil {
			return "", err
		}
		return "switch: " + cmd.Text, nil
	case CmdCopy:
		found, err := w.CopySummary(cmd.ChapterID)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("copy: no chapter %d", cmd.ChapterID), nil
		}
		return fmt.Sprintf("copy: chapter %d", cmd.ChapterID), nil
	case CmdChapters:
		var b strings.Builder
		for i, ch := range w.ListChapters() {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d  %s (from message %d)", ch.ID, ch.Title, ch.StartIndex)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("command not handled by the workspace")
	}
}
