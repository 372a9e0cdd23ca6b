package internal

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

func TestMessageStream_AppendAssignsMonotonicIDs(t *testing.T) {
	ms := NewMessageStream(fixedNow)
	ms.Replace(CreateTestSessionWithMessages("alpha", 3))

	first := ms.Append(RoleUser, "four")
	second := ms.Append(RoleAssistant, "five")

	if first.ID != 4 || second.ID != 5 {
		t.Errorf("IDs = %d, %d, want 4, 5", first.ID, second.ID)
	}
	if first.Timestamp != "2025-01-01T12:00:00Z" {
		t.Errorf("Timestamp = %q", first.Timestamp)
	}
	if ms.Len() != 5 {
		t.Errorf("Len() = %d, want 5", ms.Len())
	}
}

func TestMessageStream_AppendWithoutSession(t *testing.T) {
	ms := NewMessageStream(fixedNow)
	msg := ms.Append(RoleUser, "hello")
	if msg.ID != 1 {
		t.Errorf("ID = %d, want 1", msg.ID)
	}
	if ms.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ms.Len())
	}
}

func TestMessageStream_Slice(t *testing.T) {
	ms := NewMessageStream(fixedNow)
	ms.Replace(CreateTestSessionWithMessages("alpha", 12))

	tests := []struct {
		name    string
		from    int
		wantLen int
		firstID int64
	}{
		{name: "from start", from: 0, wantLen: 12, firstID: 1},
		{name: "chapter offset", from: 4, wantLen: 8, firstID: 5},
		{name: "last", from: 11, wantLen: 1, firstID: 12},
		{name: "at end", from: 12, wantLen: 0},
		{name: "past end", from: 99, wantLen: 0},
		{name: "negative", from: -3, wantLen: 12, firstID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ms.Slice(tt.from)
			if got == nil {
				t.Fatal("Slice() returned nil")
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len(Slice(%d)) = %d, want %d", tt.from, len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].ID != tt.firstID {
				t.Errorf("Slice(%d)[0].ID = %d, want %d", tt.from, got[0].ID, tt.firstID)
			}
			for i := 1; i < len(got); i++ {
				if got[i].ID <= got[i-1].ID {
					t.Errorf("Slice(%d) out of order at %d", tt.from, i)
				}
			}
		})
	}
}

func TestMessageStream_SliceIsACopy(t *testing.T) {
	ms := NewMessageStream(fixedNow)
	ms.Replace(CreateTestSessionWithMessages("alpha", 2))

	got := ms.Slice(0)
	got[0].Content = "changed"
	if ms.Slice(0)[0].Content == "changed" {
		t.Error("Slice() exposed internal storage")
	}
}

func TestMessageStream_ReplaceRetainsHistories(t *testing.T) {
	ms := NewMessageStream(fixedNow)
	alpha := CreateTestSessionWithMessages("alpha", 2)
	beta := CreateTestSessionWithMessages("beta", 3)

	ms.Replace(alpha)
	ms.Append(RoleUser, "extra")
	ms.Replace(beta)

	if ms.ActiveID() != "beta" || ms.Len() != 3 {
		t.Fatalf("after switch: active=%q len=%d", ms.ActiveID(), ms.Len())
	}

	// reactivating with registry content keeps the retained history
	ms.Replace(alpha)
	if ms.Len() != 3 {
		t.Errorf("retained alpha Len() = %d, want 3", ms.Len())
	}
	if len(alpha.Messages) != 2 {
		t.Errorf("source session mutated: %d messages", len(alpha.Messages))
	}
	if !ms.Has("beta") || ms.Has("gamma") {
		t.Error("Has() reports wrong retention")
	}
}

func TestMessageStream_AppendTo(t *testing.T) {
	ms := NewMessageStream(fixedNow)
	ms.Replace(CreateTestSessionWithMessages("alpha", 2))
	ms.Replace(CreateTestSessionWithMessages("beta", 2))

	msg, ok := ms.AppendTo("alpha", RoleAssistant, "late")
	if !ok || msg.ID != 3 {
		t.Fatalf("AppendTo() = %+v, %v", msg, ok)
	}
	if ms.Len() != 2 {
		t.Errorf("active session changed: Len() = %d", ms.Len())
	}
	alpha, _ := ms.History("alpha")
	if len(alpha.Messages) != 3 {
		t.Errorf("alpha has %d messages, want 3", len(alpha.Messages))
	}

	if _, ok := ms.AppendTo("never", RoleUser, "x"); ok {
		t.Error("AppendTo() on unknown session should fail")
	}
}

func TestMessageStream_Restore(t *testing.T) {
	ms := NewMessageStream(fixedNow)
	ms.Replace(CreateTestSessionWithMessages("alpha", 2))

	ms.Restore(CreateTestSessionWithMessages("alpha", 5))
	if ms.Len() != 5 {
		t.Errorf("Len() after Restore = %d, want 5", ms.Len())
	}
	if len(ms.Retained()) != 1 {
		t.Errorf("Retained() = %d histories, want 1", len(ms.Retained()))
	}
}
