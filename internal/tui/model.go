// Package tui is the full-screen interface for a flux workspace.
//
// The bubbletea update goroutine is the workspace's only thread. Deferred
// replies scheduled on an internal.Loop arrive as loopEventMsg values, so a
// reply never runs in the middle of a key press.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/flux-workspace/internal"
)

const (
	onlinePlaceholder  = "Sync your technical thoughts to the timeline..."
	offlinePlaceholder = "⚠ CONNECTION DROPPED: Saved to Cache..."

	toastRefresh = 250 * time.Millisecond
)

// Options configures a Model
type Options struct {
	Workspace *internal.Workspace
	// Loop delivers the workspace's timer callbacks. Its events must not
	// also be drained by Loop.Run.
	Loop *internal.Loop
	// Toasts should also be registered as a workspace notifier
	Toasts *internal.ToastBoard
}

type (
	loopEventMsg func()
	toastTickMsg time.Time
)

// Model is the bubbletea model
type Model struct {
	workspace *internal.Workspace
	loop      *internal.Loop
	toasts    *internal.ToastBoard

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	cursor   int // selected chapter while the timeline is open
	showHelp bool
	status   string
	// toTop makes the next refresh show the first visible message instead
	// of following the newest one
	toTop bool
}

// New creates the model. The workspace must have been built with
// opts.Loop as its scheduler and opts.Toasts among its notifiers.
func New(opts Options) Model {
	input := textinput.New()
	input.Placeholder = onlinePlaceholder
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	toasts := opts.Toasts
	if toasts == nil {
		toasts = internal.NewToastBoard(0, nil)
	}

	m := Model{
		workspace: opts.Workspace,
		loop:      opts.Loop,
		toasts:    toasts,
		input:     input,
		viewport:  viewport.New(80, 20),
		width:     80,
		height:    24,
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.loop), tickToasts())
}

func waitForEvent(loop *internal.Loop) tea.Cmd {
	if loop == nil {
		return nil
	}
	return func() tea.Msg {
		return loopEventMsg(<-loop.Events())
	}
}

func tickToasts() tea.Cmd {
	return tea.Tick(toastRefresh, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case loopEventMsg:
		if msg != nil {
			msg()
		}
		m.refresh()
		return m, waitForEvent(m.loop)

	case toastTickMsg:
		// Redraw so expired toasts disappear
		return m, tickToasts()

	case tea.KeyMsg:
		if m.workspace.State().TimelineOpen {
			return m.updateTimeline(msg)
		}
		return m.updateMain(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := m.workspace

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.input.Value() != "" {
			m.input.Reset()
			return m, nil
		}
		return m, tea.Quit

	case "enter":
		return m.submit()

	case "ctrl+o":
		m.status = "mode: " + w.ToggleOfflineMode().String()

	case "ctrl+t":
		w.OpenTimeline()
		m.cursor = 0

	case "ctrl+r":
		if w.SyncDraft() {
			m.status = "sync: draft recovered"
		}

	case "ctrl+a":
		w.RestoreFullHistory()
		m.toTop = true
		m.status = fmt.Sprintf("restore: showing %d messages", len(w.Visible()))

	case "tab":
		m.switchRelative(1)

	case "shift+tab":
		m.switchRelative(-1)

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	m.refresh()
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.showHelp = false

	cmd, err := internal.ParseCommand(line)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	switch cmd.Kind {
	case internal.CmdQuit:
		return m, tea.Quit
	case internal.CmdHelp:
		m.showHelp = true
		return m, nil
	case internal.CmdWait:
		m.status = "/wait is for scripts; replies arrive on their own here"
		return m, nil
	case internal.CmdTimeline:
		m.cursor = 0
	}

	out, err := internal.Apply(m.workspace, cmd)
	if err == nil && (cmd.Kind == internal.CmdJump || cmd.Kind == internal.CmdRestore) {
		m.toTop = true
	}
	if err != nil {
		m.status = err.Error()
	} else if cmd.Kind != internal.CmdSubmit {
		m.status = firstLine(out)
	} else {
		m.status = ""
	}
	m.refresh()
	return m, nil
}

func (m Model) updateTimeline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := m.workspace
	chapters := w.ListChapters()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "q", "ctrl+t":
		w.CloseTimeline()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(chapters)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(chapters) {
			ch := chapters[m.cursor]
			if w.JumpToChapter(ch.ID) {
				m.toTop = true
				m.status = fmt.Sprintf("jump: %s", ch.Title)
			}
		}

	case "c", "y":
		if m.cursor < len(chapters) {
			if _, err := w.CopySummary(chapters[m.cursor].ID); err != nil {
				m.status = err.Error()
			}
		}
	}

	m.refresh()
	return m, nil
}

func (m *Model) switchRelative(step int) {
	ids := m.workspace.Registry().IDs()
	if len(ids) == 0 {
		return
	}
	current := 0
	for i, id := range ids {
		if id == m.workspace.State().ActiveSessionID {
			current = i
			break
		}
	}
	next := ids[(current+step+len(ids))%len(ids)]
	if err := m.workspace.SwitchSession(next); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "switch: " + next
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	m.viewport.Width = width
	m.viewport.Height = max(height-chromeHeight, 3)
	m.input.Width = max(width-8, 10)
}

// refresh syncs the widgets with workspace state. The viewport follows the
// newest message unless a jump or restore asked for the top.
func (m *Model) refresh() {
	if m.workspace.State().Offline() {
		m.input.Placeholder = offlinePlaceholder
	} else {
		m.input.Placeholder = onlinePlaceholder
	}
	m.viewport.SetContent(renderMessages(m.workspace.Visible(), m.width))
	if m.toTop {
		m.viewport.GotoTop()
		m.toTop = false
		return
	}
	m.viewport.GotoBottom()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
