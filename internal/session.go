package internal

import "fmt"

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is one independent conversation context: an ordered message
// history plus the chapters that bookmark offsets into it.
type Session struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Messages []Message `json:"messages" yaml:"messages"`
	Chapters []Chapter `json:"chapters,omitempty" yaml:"chapters,omitempty"`
}

// Message represents a single entry in a session's history
type Message struct {
	ID        int64  `json:"id" yaml:"id"`
	Role      Role   `json:"role" yaml:"role"`
	Content   string `json:"content" yaml:"content"`
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Chapter is a named checkpoint into a session's message sequence.
// StartIndex is not validated against the session; see ClampOffset.
type Chapter struct {
	ID         int    `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	StartIndex int    `json:"start_index" yaml:"start_index"`
	Summary    string `json:"summary" yaml:"summary"`
}

// Clone returns a deep copy so callers can never mutate registry content
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{ID: s.ID, Title: s.Title}
	out.Messages = append(make([]Message, 0, len(s.Messages)), s.Messages...)
	out.Chapters = append(make([]Chapter, 0, len(s.Chapters)), s.Chapters...)
	return out
}

// Chapter looks up a chapter by ID
func (s *Session) Chapter(id int) (Chapter, bool) {
	for _, ch := range s.Chapters {
		if ch.ID == id {
			return ch, true
		}
	}
	return Chapter{}, false
}

// NextMessageID returns max(existing IDs)+1, or 1 for an empty session
func (s *Session) NextMessageID() int64 {
	var maxID int64
	for _, msg := range s.Messages {
		if msg.ID > maxID {
			maxID = msg.ID
		}
	}
	return maxID + 1
}

// String renders a short label used in logs
func (s *Session) String() string {
	return fmt.Sprintf("%s (%q, %d messages, %d chapters)", s.ID, s.Title, len(s.Messages), len(s.Chapters))
}
