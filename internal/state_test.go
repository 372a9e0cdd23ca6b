package internal

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestNewState(t *testing.T) {
	s := NewState("alpha")
	if s.Mode != ModeOnline {
		t.Errorf("Mode = %v, want online", s.Mode)
	}
	if s.Draft.Occupied() {
		t.Error("new state should have an empty draft")
	}
	if s.Phase() != PhaseOnlineEmpty {
		t.Errorf("Phase() = %v, want %v", s.Phase(), PhaseOnlineEmpty)
	}
	if s.ActiveSessionID != "alpha" || s.StartIndex != 0 || s.TimelineOpen {
		t.Errorf("NewState() = %+v", s)
	}
}

func TestState_PhaseTransitions(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		apply func(State) State
		want  Phase
	}{
		{
			name:  "toggle offline",
			apply: func(s State) State { return s.Toggle() },
			want:  PhaseOfflineEmpty,
		},
		{
			name:  "store while offline",
			apply: func(s State) State { return s.Toggle().StoreDraft("a", at) },
			want:  PhaseOfflineOccupied,
		},
		{
			name:  "overwrite stays occupied",
			apply: func(s State) State { return s.Toggle().StoreDraft("a", at).StoreDraft("b", at) },
			want:  PhaseOfflineOccupied,
		},
		{
			name:  "online with draft is pending recovery",
			apply: func(s State) State { return s.Toggle().StoreDraft("a", at).Toggle() },
			want:  PhaseOnlinePendingRecovery,
		},
		{
			name:  "clear after recovery",
			apply: func(s State) State { return s.Toggle().StoreDraft("a", at).Toggle().ClearDraft() },
			want:  PhaseOnlineEmpty,
		},
		{
			name:  "offline again keeps draft",
			apply: func(s State) State { return s.Toggle().StoreDraft("a", at).Toggle().Toggle() },
			want:  PhaseOfflineOccupied,
		},
		{
			name:  "clear on empty is a no-op",
			apply: func(s State) State { return s.ClearDraft() },
			want:  PhaseOnlineEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.apply(NewState("alpha")).Phase()
			if got != tt.want {
				t.Errorf("Phase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_TransitionsArePure(t *testing.T) {
	s := NewState("alpha")
	_ = s.Toggle()
	_ = s.StoreDraft("x", time.Now())
	_ = s.JumpTo(4)
	_ = s.OpenTimeline()

	if s != NewState("alpha") {
		t.Errorf("original state mutated: %+v", s)
	}
}

func TestState_StoreDraftOverwrites(t *testing.T) {
	at := time.Now()
	s := NewState("alpha").WithMode(ModeOffline).StoreDraft("first", at).StoreDraft("second", at)

	text, ok := s.Draft.Text()
	if !ok || text != "second" {
		t.Errorf("Draft.Text() = %q, %v, want second, true", text, ok)
	}
}

func TestState_Viewport(t *testing.T) {
	s := NewState("alpha").OpenTimeline().JumpTo(6)
	if s.StartIndex != 6 {
		t.Errorf("StartIndex = %d, want 6", s.StartIndex)
	}
	if s.TimelineOpen {
		t.Error("JumpTo should close the timeline")
	}

	if got := s.RestoreFullHistory().StartIndex; got != 0 {
		t.Errorf("RestoreFullHistory().StartIndex = %d, want 0", got)
	}

	switched := s.OpenTimeline().SwitchSession("beta")
	if switched.StartIndex != 0 || switched.ActiveSessionID != "beta" {
		t.Errorf("SwitchSession() = %+v", switched)
	}
	if !switched.TimelineOpen {
		t.Error("SwitchSession should leave the timeline flag alone")
	}
	if got := switched.CloseTimeline().TimelineOpen; got {
		t.Error("CloseTimeline() left the timeline open")
	}
}

func TestState_Serialization(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	s := NewState("alpha").WithMode(ModeOffline).StoreDraft("hold", at).JumpTo(3)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var fromJSON State
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if fromJSON.Mode != ModeOffline || fromJSON.StartIndex != 3 {
		t.Errorf("JSON round trip = %+v", fromJSON)
	}
	if text, _ := fromJSON.Draft.Text(); text != "hold" {
		t.Errorf("JSON draft = %q, want hold", text)
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var fromYAML State
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if fromYAML.Mode != ModeOffline || !fromYAML.Draft.Slot.CachedAt.Equal(at) {
		t.Errorf("YAML round trip = %+v", fromYAML)
	}
}

func TestMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "online", want: ModeOnline},
		{in: "OFFLINE", want: ModeOffline},
		{in: "", want: ModeOnline},
		{in: "flaky", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var m Mode
			err := m.UnmarshalText([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && m != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, m, tt.want)
			}
		})
	}
}
