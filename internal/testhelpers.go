package internal

import (
	"fmt"
	"sync"
	"time"
)

// TestEpoch is the fixed clock start used by test workspaces
var TestEpoch = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// CreateTestSession creates a 12-message session with five chapters
// starting at offsets 2, 4, 6, 8 and 10
func CreateTestSession(id string) *Session {
	session := CreateTestSessionWithMessages(id, 12)
	for i := 1; i <= 5; i++ {
		session.Chapters = append(session.Chapters, Chapter{
			ID:         i,
			Title:      fmt.Sprintf("%d. Chapter %d", i, i),
			StartIndex: i * 2,
			Summary:    fmt.Sprintf("Summary of chapter %d in %s", i, id),
		})
	}
	return session
}

// CreateTestSessionWithMessages creates a session with n alternating
// user/assistant messages and no chapters
func CreateTestSessionWithMessages(id string, n int) *Session {
	session := &Session{ID: id, Title: "Test " + id}
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		session.Messages = append(session.Messages, Message{
			ID:      int64(i + 1),
			Role:    role,
			Content: fmt.Sprintf("%s message %d", id, i+1),
		})
	}
	return session
}

// Notification is one recorded notification
type Notification struct {
	Kind Kind
	Text string
}

// RecordingNotifier records notifications for assertions
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Notification
}

// NewRecordingNotifier creates an empty recorder
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Notify implements Notifier
func (r *RecordingNotifier) Notify(kind Kind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Notification{Kind: kind, Text: text})
}

// Events returns the recorded notifications in order
func (r *RecordingNotifier) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.events...)
}

// Count returns how many notifications of kind were recorded
func (r *RecordingNotifier) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// FakeClipboard is an in-memory Clipboard
type FakeClipboard struct {
	Text string
	Err  error
}

// NewFakeClipboard creates an empty clipboard
func NewFakeClipboard() *FakeClipboard {
	return &FakeClipboard{}
}

// WriteText implements Clipboard
func (c *FakeClipboard) WriteText(text string) error {
	if c.Err != nil {
		return c.Err
	}
	c.Text = text
	return nil
}

// TestRig bundles a workspace with its test collaborators
type TestRig struct {
	Workspace *Workspace
	Scheduler *ManualScheduler
	Notifier  *RecordingNotifier
	Clipboard *FakeClipboard
}

// NewTestRig builds a workspace over sessions with a manual scheduler.
// Option fields left zero are filled with the rig's collaborators.
func NewTestRig(opts Options, sessions ...*Session) (*TestRig, error) {
	rig := &TestRig{
		Scheduler: NewManualScheduler(TestEpoch),
		Notifier:  NewRecordingNotifier(),
		Clipboard: NewFakeClipboard(),
	}
	if opts.Registry == nil {
		opts.Registry = NewMemoryRegistry(sessions...)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = rig.Scheduler
	}
	if opts.Notifier == nil {
		opts.Notifier = rig.Notifier
	}
	if opts.Clipboard == nil {
		opts.Clipboard = rig.Clipboard
	}
	if opts.Now == nil {
		opts.Now = rig.Scheduler.Now
	}
	w, err := NewWorkspace(opts)
	if err != nil {
		return nil, err
	}
	rig.Workspace = w
	return rig, nil
}
