package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/flux-workspace/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	model Model
	rig   *internal.TestRig
	board *internal.ToastBoard
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	board := internal.NewToastBoard(time.Minute, nil)
	recorder := internal.NewRecordingNotifier()
	rig, err := internal.NewTestRig(internal.Options{
		Notifier: internal.MultiNotifier{board, recorder},
	}, internal.CreateTestSession("alpha"), internal.CreateTestSession("beta"))
	require.NoError(t, err)

	h := &harness{rig: rig, board: board}
	h.model = New(Options{Workspace: rig.Workspace, Toasts: board})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = h.model.Update(msg)
		h.model = next.(Model)
	}
	return cmd
}

func (h *harness) typeLine(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}, tea.KeyMsg{Type: tea.KeyEnter})
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Resize(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.model.ready)
	assert.Equal(t, 100, h.model.viewport.Width)
	assert.Equal(t, 30-chromeHeight, h.model.viewport.Height)
}

func TestModel_SubmitOnline(t *testing.T) {
	h := newHarness(t)
	w := h.rig.Workspace

	h.typeLine("hello flux")
	assert.Len(t, w.Messages(), 13)
	assert.Len(t, w.PendingReplies(), 1)
	assert.Empty(t, h.model.input.Value())

	h.rig.Scheduler.Flush()
	require.Len(t, w.Messages(), 14)
	assert.Equal(t, internal.RoleAssistant, w.Messages()[13].Role)
}

func TestModel_OfflineDraftAndRecovery(t *testing.T) {
	h := newHarness(t)
	w := h.rig.Workspace

	h.send(key(tea.KeyCtrlO))
	assert.True(t, w.State().Offline())
	assert.Equal(t, offlinePlaceholder, h.model.input.Placeholder)
	assert.Contains(t, h.model.View(), "OFFLINE")

	h.typeLine("remember the gas numbers")
	assert.Len(t, w.Messages(), 12, "offline input is not appended")
	assert.Contains(t, h.model.View(), "NETWORK INTERRUPTED: MESSAGE CACHED.")

	h.send(key(tea.KeyCtrlO))
	assert.Equal(t, onlinePlaceholder, h.model.input.Placeholder)
	assert.Equal(t, internal.PhaseOnlinePendingRecovery, w.State().Phase())
	assert.Contains(t, h.model.View(), "Resilience Recovery Point Found")

	h.send(key(tea.KeyCtrlR))
	assert.Equal(t, internal.PhaseOnlineEmpty, w.State().Phase())
	assert.Len(t, w.Messages(), 13)
	assert.NotContains(t, h.model.View(), "Resilience Recovery Point Found")
	assert.Equal(t, "sync: draft recovered", h.model.status)
}

func TestModel_Timeline(t *testing.T) {
	h := newHarness(t)
	w := h.rig.Workspace

	h.send(key(tea.KeyCtrlT))
	require.True(t, w.State().TimelineOpen)
	view := h.model.View()
	assert.Contains(t, view, "WORKFLOW TIMELINE")
	assert.Contains(t, view, "1. Chapter 1")

	h.send(key(tea.KeyDown), runes("c"))
	assert.Equal(t, "Summary of chapter 2 in alpha", h.rig.Clipboard.Text)
	assert.Contains(t, h.model.View(), "PROMPT COPIED")

	h.send(key(tea.KeyEnter))
	st := w.State()
	assert.False(t, st.TimelineOpen)
	assert.Equal(t, 4, st.StartIndex)
	assert.Len(t, w.Visible(), 8)
	assert.Contains(t, h.model.View(), "Restore Full History")

	h.send(key(tea.KeyCtrlA))
	assert.Equal(t, 0, w.State().StartIndex)
}

func TestModel_JumpScrollsToTop(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 12})
	require.True(t, h.model.viewport.AtBottom())
	require.False(t, h.model.viewport.AtTop(), "history must overflow the viewport")

	h.send(key(tea.KeyCtrlT), key(tea.KeyDown), key(tea.KeyEnter))
	assert.Equal(t, 4, h.rig.Workspace.State().StartIndex)
	assert.True(t, h.model.viewport.AtTop(), "a jump shows the chapter's first message")

	h.typeLine("new question")
	assert.True(t, h.model.viewport.AtBottom(), "new messages are followed again")

	h.send(key(tea.KeyCtrlA))
	assert.True(t, h.model.viewport.AtTop())

	h.typeLine("more")
	h.typeLine("/jump 2")
	assert.True(t, h.model.viewport.AtTop())
	h.typeLine("more")
	h.typeLine("/restore")
	assert.True(t, h.model.viewport.AtTop())
}

func TestModel_TimelineCursorBounds(t *testing.T) {
	h := newHarness(t)
	h.send(key(tea.KeyCtrlT), key(tea.KeyUp))
	assert.Equal(t, 0, h.model.cursor)

	for i := 0; i < 10; i++ {
		h.send(key(tea.KeyDown))
	}
	assert.Equal(t, 4, h.model.cursor)

	h.send(key(tea.KeyEsc))
	assert.False(t, h.rig.Workspace.State().TimelineOpen)
}

func TestModel_SwitchSessions(t *testing.T) {
	h := newHarness(t)
	w := h.rig.Workspace

	h.send(key(tea.KeyTab))
	assert.Equal(t, "beta", w.State().ActiveSessionID)
	h.send(key(tea.KeyTab))
	assert.Equal(t, "alpha", w.State().ActiveSessionID, "wraps around")
	h.send(key(tea.KeyShiftTab))
	assert.Equal(t, "beta", w.State().ActiveSessionID)
}

func TestModel_SlashCommands(t *testing.T) {
	h := newHarness(t)
	w := h.rig.Workspace

	h.typeLine("/jump 3")
	assert.Equal(t, 6, w.State().StartIndex)
	assert.Equal(t, "jump: chapter 3, showing 6 of 12 messages", h.model.status)

	h.typeLine("/help")
	assert.True(t, h.model.showHelp)
	assert.Contains(t, h.model.View(), "/offline")
	h.send(key(tea.KeyEsc))
	assert.False(t, h.model.showHelp)

	h.typeLine("/teleport")
	assert.Contains(t, h.model.status, "unknown command")

	h.typeLine("/chapters")
	assert.True(t, strings.HasSuffix(h.model.status, "..."))

	cmd := h.send(runes("/quit"), key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_EscClearsInputBeforeQuitting(t *testing.T) {
	h := newHarness(t)

	h.send(runes("half typed"))
	cmd := h.send(key(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.Empty(t, h.model.input.Value())

	cmd = h.send(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_LoopDeliversReplies(t *testing.T) {
	loop := internal.NewLoop(4)
	defer loop.Stop()

	w, err := internal.NewWorkspace(internal.Options{
		Registry:   internal.NewMemoryRegistry(internal.CreateTestSession("alpha")),
		Scheduler:  loop,
		Notifier:   internal.NewRecordingNotifier(),
		Clipboard:  internal.NewFakeClipboard(),
		ReplyDelay: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	m := New(Options{Workspace: w, Loop: loop})
	next, _ := m.Update(runes("ping"))
	next, _ = next.Update(key(tea.KeyEnter))
	m = next.(Model)
	require.Len(t, w.Messages(), 13)

	select {
	case fn := <-loop.Events():
		next, cmd := m.Update(loopEventMsg(fn))
		m = next.(Model)
		assert.NotNil(t, cmd, "keeps waiting for loop events")
	case <-time.After(time.Second):
		t.Fatal("reply was never posted to the loop")
	}

	assert.Len(t, w.Messages(), 14)
	assert.Empty(t, w.PendingReplies())
	assert.Contains(t, m.viewport.View(), "Context synchronized")
}

func TestRenderMessages(t *testing.T) {
	out := renderMessages([]internal.Message{
		{ID: 1, Role: internal.RoleUser, Content: "question"},
		{ID: 2, Role: internal.RoleAssistant, Content: "answer"},
	}, 60)

	assert.Contains(t, out, "you")
	assert.Contains(t, out, "question")
	assert.Contains(t, out, "flux")
	assert.Contains(t, out, "answer")
	assert.Less(t, strings.Index(out, "question"), strings.Index(out, "answer"))
}

func TestFitHeight(t *testing.T) {
	assert.Equal(t, "a\nb\n", fitHeight("a\nb", 3))
	assert.Equal(t, "a", fitHeight("a\nb\nc", 1))
}
