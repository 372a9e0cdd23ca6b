package internal

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the simulated connectivity of the whole workspace
type Mode int

const (
	ModeOnline Mode = iota
	ModeOffline
)

func (m Mode) String() string {
	if m == ModeOffline {
		return "offline"
	}
	return "online"
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "online", "":
		*m = ModeOnline
	case "offline":
		*m = ModeOffline
	default:
		return fmt.Errorf("unknown mode: %q", text)
	}
	return nil
}

// Phase is the (mode, draft occupancy) pair the draft state machine runs on
type Phase int

const (
	PhaseOnlineEmpty Phase = iota
	PhaseOnlinePendingRecovery
	PhaseOfflineEmpty
	PhaseOfflineOccupied
)

func (p Phase) String() string {
	switch p {
	case PhaseOnlinePendingRecovery:
		return "online-pending-recovery"
	case PhaseOfflineEmpty:
		return "offline-empty"
	case PhaseOfflineOccupied:
		return "offline-occupied"
	default:
		return "online-empty"
	}
}

// State is everything the workspace tracks besides message histories.
// It is a plain value: every transition returns a new State.
type State struct {
	Mode            Mode       `json:"mode" yaml:"mode"`
	Draft           DraftCache `json:"draft" yaml:"draft"`
	ActiveSessionID string     `json:"active_session_id" yaml:"active_session_id"`
	StartIndex      int        `json:"start_index" yaml:"start_index"`
	TimelineOpen    bool       `json:"timeline_open" yaml:"timeline_open"`
}

// NewState returns the initial state: online, no draft, full history
func NewState(activeSessionID string) State {
	return State{Mode: ModeOnline, ActiveSessionID: activeSessionID}
}

// Phase derives the draft state machine phase
func (s State) Phase() Phase {
	switch {
	case s.Mode == ModeOnline && s.Draft.Occupied():
		return PhaseOnlinePendingRecovery
	case s.Mode == ModeOnline:
		return PhaseOnlineEmpty
	case s.Draft.Occupied():
		return PhaseOfflineOccupied
	default:
		return PhaseOfflineEmpty
	}
}

// Offline reports whether input is currently diverted to the draft cache
func (s State) Offline() bool {
	return s.Mode == ModeOffline
}

// WithMode assigns the mode. Draft occupancy is preserved.
func (s State) WithMode(m Mode) State {
	s.Mode = m
	return s
}

// Toggle flips between online and offline
func (s State) Toggle() State {
	if s.Mode == ModeOffline {
		return s.WithMode(ModeOnline)
	}
	return s.WithMode(ModeOffline)
}

// StoreDraft overwrites the draft slot
func (s State) StoreDraft(text string, at time.Time) State {
	s.Draft = s.Draft.Store(text, at)
	return s
}

// ClearDraft empties the draft slot
func (s State) ClearDraft() State {
	s.Draft = s.Draft.Clear()
	return s
}

// JumpTo moves the viewport start and closes the timeline overlay.
// The offset is expected to be clamped by the caller.
func (s State) JumpTo(offset int) State {
	s.StartIndex = offset
	s.TimelineOpen = false
	return s
}

// RestoreFullHistory moves the viewport back to the first message
func (s State) RestoreFullHistory() State {
	s.StartIndex = 0
	return s
}

// SwitchSession activates another session with a full-history viewport
func (s State) SwitchSession(id string) State {
	s.ActiveSessionID = id
	s.StartIndex = 0
	return s
}

// OpenTimeline shows the chapter navigator
func (s State) OpenTimeline() State {
	s.TimelineOpen = true
	return s
}

// CloseTimeline hides the chapter navigator
func (s State) CloseTimeline() State {
	s.TimelineOpen = false
	return s
}
