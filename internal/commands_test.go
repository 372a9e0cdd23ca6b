package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{name: "plain text", line: "hello there", want: Command{Kind: CmdSubmit, Text: "hello there"}},
		{name: "escaped slash", line: "//etc/hosts", want: Command{Kind: CmdSubmit, Text: "/etc/hosts"}},
		{name: "offline", line: "/offline", want: Command{Kind: CmdOffline}},
		{name: "case insensitive", line: "  /ONLINE ", want: Command{Kind: CmdOnline}},
		{name: "jump", line: "/jump 3", want: Command{Kind: CmdJump, ChapterID: 3}},
		{name: "copy", line: "/copy 5", want: Command{Kind: CmdCopy, ChapterID: 5}},
		{name: "switch", line: "/switch python", want: Command{Kind: CmdSwitch, Text: "python"}},
		{name: "wait", line: "/wait 800ms", want: Command{Kind: CmdWait, Wait: 800 * time.Millisecond}},
		{name: "exit alias", line: "/exit", want: Command{Kind: CmdQuit}},
		{name: "jump without id", line: "/jump", wantErr: true},
		{name: "jump bad id", line: "/jump two", wantErr: true},
		{name: "switch without id", line: "/switch", wantErr: true},
		{name: "wait negative", line: "/wait -1s", wantErr: true},
		{name: "extra args", line: "/sync now", wantErr: true},
		{name: "unknown", line: "/teleport", wantErr: true},
		{name: "bare slash", line: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_UnknownIsSentinel(t *testing.T) {
	_, err := ParseCommand("/teleport")
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestApply(t *testing.T) {
	rig := newRig(t, Options{})
	w := rig.Workspace

	run := func(line string) string {
		t.Helper()
		cmd, err := ParseCommand(line)
		require.NoError(t, err)
		out, err := Apply(w, cmd)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "mode: offline", run("/offline"))
	assert.Equal(t, "submit: cached", run("draft text"))
	assert.Equal(t, "mode: online (draft waiting, /sync to recover)", run("/online"))
	assert.Equal(t, "sync: draft recovered", run("/sync"))
	assert.Equal(t, "sync: nothing to recover", run("/sync"))
	assert.Equal(t, "submit: ignored", run("   "))

	assert.Equal(t, "timeline: open", run("/timeline"))
	assert.True(t, w.State().TimelineOpen)
	assert.Equal(t, "jump: chapter 2, showing 9 of 13 messages", run("/jump 2"))
	assert.False(t, w.State().TimelineOpen)
	assert.Equal(t, "jump: no chapter 9", run("/jump 9"))
	assert.Equal(t, "restore: showing 13 messages", run("/restore"))

	assert.Equal(t, "copy: chapter 1", run("/copy 1"))
	assert.Equal(t, "Summary of chapter 1 in alpha", rig.Clipboard.Text)
	assert.Equal(t, "copy: no chapter 8", run("/copy 8"))

	assert.Equal(t, "switch: beta", run("/switch beta"))
	assert.Equal(t, "mode: offline", run("/toggle"))
	assert.Contains(t, run("/chapters"), "1  1. Chapter 1 (from message 2)")
	assert.Equal(t, "timeline: closed", run("/close"))
}

func TestApply_Errors(t *testing.T) {
	rig := newRig(t, Options{})

	_, err := Apply(rig.Workspace, Command{Kind: CmdSwitch, Text: "ghost"})
	var notFound *SessionNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = Apply(rig.Workspace, Command{Kind: CmdWait, Wait: time.Second})
	assert.Error(t, err)
}
