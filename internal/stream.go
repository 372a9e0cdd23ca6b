package internal

import "time"

// MessageStream owns the message histories of every session activated so
// far. Exactly one of them is active; the others are retained untouched
// until they are activated again.
//
// MessageStream is not safe for concurrent use. Callers serialize access
// through a Loop or the TUI update loop.
type MessageStream struct {
	histories map[string]*Session
	active    *Session
	now       func() time.Time
}

// NewMessageStream creates an empty stream with no active session
func NewMessageStream(now func() time.Time) *MessageStream {
	if now == nil {
		now = time.Now
	}
	return &MessageStream{
		histories: make(map[string]*Session),
		now:       now,
	}
}

// Replace activates session. A session seen before keeps its retained
// history; a new one is copied in so registry content is never mutated.
func (ms *MessageStream) Replace(session *Session) {
	if session == nil {
		return
	}
	if retained, ok := ms.histories[session.ID]; ok {
		ms.active = retained
		return
	}
	history := session.Clone()
	ms.histories[history.ID] = history
	ms.active = history
}

// Append adds a message with a fresh ID to the active session
func (ms *MessageStream) Append(role Role, content string) Message {
	if ms.active == nil {
		// No session yet: keep the message in an anonymous history so the
		// operation stays total.
		ms.Replace(&Session{ID: "", Title: "scratch"})
	}
	return ms.appendTo(ms.active, role, content)
}

// AppendTo adds a message to a retained session whether or not it is
// active. It reports false if the session was never activated.
func (ms *MessageStream) AppendTo(sessionID string, role Role, content string) (Message, bool) {
	history, ok := ms.histories[sessionID]
	if !ok {
		return Message{}, false
	}
	return ms.appendTo(history, role, content), true
}

func (ms *MessageStream) appendTo(history *Session, role Role, content string) Message {
	msg := Message{
		ID:        history.NextMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: formatTimestamp(ms.now()),
	}
	history.Messages = append(history.Messages, msg)
	return msg
}

// Slice returns the active messages at or after from, in order.
// Past the end the result is empty; a negative from is treated as 0.
func (ms *MessageStream) Slice(from int) []Message {
	if ms.active == nil {
		return []Message{}
	}
	if from < 0 {
		from = 0
	}
	if from >= len(ms.active.Messages) {
		return []Message{}
	}
	out := make([]Message, len(ms.active.Messages)-from)
	copy(out, ms.active.Messages[from:])
	return out
}

// Has reports whether a session history is retained
func (ms *MessageStream) Has(sessionID string) bool {
	_, ok := ms.histories[sessionID]
	return ok
}

// Len returns the number of messages in the active session
func (ms *MessageStream) Len() int {
	if ms.active == nil {
		return 0
	}
	return len(ms.active.Messages)
}

// ActiveID returns the active session ID, or "" if none
func (ms *MessageStream) ActiveID() string {
	if ms.active == nil {
		return ""
	}
	return ms.active.ID
}

// Active returns a copy of the active session
func (ms *MessageStream) Active() *Session {
	return ms.active.Clone()
}

// History returns a copy of a retained session history
func (ms *MessageStream) History(sessionID string) (*Session, bool) {
	history, ok := ms.histories[sessionID]
	if !ok {
		return nil, false
	}
	return history.Clone(), true
}

// Retained returns copies of every retained history
func (ms *MessageStream) Retained() []*Session {
	out := make([]*Session, 0, len(ms.histories))
	for _, history := range ms.histories {
		out = append(out, history.Clone())
	}
	return out
}

// Restore installs a retained history directly, replacing any existing one
func (ms *MessageStream) Restore(session *Session) {
	if session == nil {
		return
	}
	history := session.Clone()
	ms.histories[history.ID] = history
	if ms.active != nil && ms.active.ID == history.ID {
		ms.active = history
	}
}
