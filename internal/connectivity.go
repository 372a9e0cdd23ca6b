package internal

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// SubmitResult reports where a submission went
type SubmitResult int

const (
	SubmitIgnored SubmitResult = iota
	SubmitAppended
	SubmitCached
)

func (r SubmitResult) String() string {
	switch r {
	case SubmitAppended:
		return "appended"
	case SubmitCached:
		return "cached"
	default:
		return "ignored"
	}
}

// SetMode assigns the connectivity mode. A cached draft is left alone;
// recovering it is a separate SyncDraft call.
func (w *Workspace) SetMode(m Mode) {
	if w.state.Mode == m {
		return
	}
	w.state = w.state.WithMode(m)
	LogDebug("Mode set to %s (phase %s)", m, w.state.Phase())
}

// ToggleOfflineMode flips the connectivity mode and returns the new one
func (w *Workspace) ToggleOfflineMode() Mode {
	w.SetMode(w.state.Toggle().Mode)
	return w.state.Mode
}

// Submit routes user input. Blank input is ignored. Offline, the text
// overwrites the draft slot; online, it is appended and an assistant reply
// is scheduled. Submit never waits for the reply.
func (w *Workspace) Submit(text string) SubmitResult {
	if strings.TrimSpace(text) == "" {
		return SubmitIgnored
	}

	if w.state.Offline() {
		if w.state.Draft.Occupied() {
			LogDebug("Overwriting cached draft")
		}
		w.state = w.state.StoreDraft(text, w.opts.Now())
		w.opts.Notifier.Notify(KindError, w.opts.Texts.CachedToast)
		return SubmitCached
	}

	w.stream.Append(RoleUser, text)
	w.scheduleReply(w.opts.ReplyDelay, w.opts.Texts.OnlineReply)
	return SubmitAppended
}

// SyncDraft recovers the cached draft into the active session. It only
// acts while online with an occupied slot and reports whether it did.
func (w *Workspace) SyncDraft() bool {
	if w.state.Phase() != PhaseOnlinePendingRecovery {
		return false
	}

	text, _ := w.state.Draft.Text()
	w.stream.Append(RoleUser, text)
	w.state = w.state.ClearDraft()
	w.opts.Notifier.Notify(KindSuccess, w.opts.Texts.SyncedToast)
	w.scheduleReply(w.opts.SyncReplyDelay, fmt.Sprintf(w.opts.Texts.SyncReply, Preview(text, w.opts.PreviewLength)))
	return true
}

// Preview truncates text to width display columns
func Preview(text string, width int) string {
	return runewidth.Truncate(text, width, "")
}
