package internal

import (
	"testing"
)

func TestParseRawSession(t *testing.T) {
	key := "session:alpha"
	value := `{"id":"ignored","title":"Alpha","messages":[{"id":1,"role":"ai","content":"Hello"}],` +
		`"chapters":[{"id":1,"title":"One","startIndex":0,"superPrompt":"sp"}]}`

	raw, err := ParseRawSession(key, value)
	if err != nil {
		t.Fatalf("ParseRawSession() error = %v", err)
	}

	if raw.ID != "alpha" {
		t.Errorf("ID = %v, want alpha", raw.ID)
	}
	if raw.Title != "Alpha" {
		t.Errorf("Title = %v, want Alpha", raw.Title)
	}
	if len(raw.Messages) != 1 || raw.Messages[0].Role != "ai" {
		t.Errorf("Messages = %+v", raw.Messages)
	}
	if len(raw.Chapters) != 1 || raw.Chapters[0].SuperPrompt != "sp" {
		t.Errorf("Chapters = %+v", raw.Chapters)
	}
}

func TestParseRawSession_InvalidKey(t *testing.T) {
	tests := []string{
		"bubbleId:x",
		"session:",
		"session:a:b",
	}

	for _, key := range tests {
		if _, err := ParseRawSession(key, `{}`); err == nil {
			t.Errorf("ParseRawSession(%q) should fail", key)
		}
	}
}

func TestParseRawSession_InvalidJSON(t *testing.T) {
	if _, err := ParseRawSession("session:x", `{`); err == nil {
		t.Error("ParseRawSession() should fail on invalid JSON")
	}
}

func TestParseSessionOrder(t *testing.T) {
	order, err := ParseSessionOrder(`["b","a"]`)
	if err != nil {
		t.Fatalf("ParseSessionOrder() error = %v", err)
	}
	if len(order) != 2 || order[0] != "b" {
		t.Errorf("ParseSessionOrder() = %v", order)
	}

	if _, err := ParseSessionOrder(`"b"`); err == nil {
		t.Error("ParseSessionOrder() should reject a non-array")
	}
}

func TestSessionToRaw(t *testing.T) {
	session := CreateTestSession("alpha")
	raw := session.ToRaw()

	if raw.ID != "alpha" || len(raw.Messages) != 12 || len(raw.Chapters) != 5 {
		t.Fatalf("ToRaw() = %+v", raw)
	}
	if raw.Messages[1].Role != "assistant" {
		t.Errorf("Messages[1].Role = %q, want assistant", raw.Messages[1].Role)
	}

	data, err := raw.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	back, err := ParseRawSession(SessionKey("alpha"), string(data))
	if err != nil {
		t.Fatalf("ParseRawSession(ToJSON()) error = %v", err)
	}
	if back.Chapters[2].StartIndex != 6 {
		t.Errorf("StartIndex = %d, want 6", back.Chapters[2].StartIndex)
	}
}

func TestSessionClone(t *testing.T) {
	var nilSession *Session
	if nilSession.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}

	session := CreateTestSession("alpha")
	clone := session.Clone()
	clone.Messages[0].Content = "changed"
	clone.Chapters[0].Title = "changed"

	if session.Messages[0].Content == "changed" || session.Chapters[0].Title == "changed" {
		t.Error("Clone() shares storage with the original")
	}
}

func TestSessionChapter(t *testing.T) {
	session := CreateTestSession("alpha")
	ch, ok := session.Chapter(4)
	if !ok || ch.StartIndex != 8 {
		t.Errorf("Chapter(4) = %+v, %v", ch, ok)
	}
	if _, ok := session.Chapter(0); ok {
		t.Error("Chapter(0) should miss")
	}
}
