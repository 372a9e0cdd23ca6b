package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RawSession is a session as authored in a catalog file or stored in the
// workspaceKV table, before normalization
type RawSession struct {
	ID       string       `json:"id" yaml:"id"`
	Title    string       `json:"title" yaml:"title"`
	Messages []RawMessage `json:"messages" yaml:"messages"`
	Chapters []RawChapter `json:"chapters,omitempty" yaml:"chapters,omitempty"`
}

// RawMessage represents an authored message
type RawMessage struct {
	ID      int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Role    string `json:"role" yaml:"role"` // "user", "ai", "assistant"
	Content string `json:"content" yaml:"content"`
}

// RawChapter represents an authored chapter
type RawChapter struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	StartIndex  int    `json:"startIndex" yaml:"startIndex"`
	SuperPrompt string `json:"superPrompt,omitempty" yaml:"superPrompt,omitempty"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

const sessionKeyPrefix = "session:"

// SessionOrderKey holds the JSON array of session IDs in display order
const SessionOrderKey = "meta:order"

// SessionKey returns the workspaceKV key for a session ID
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// ParseRawSession parses a workspaceKV row into a RawSession.
// The key format is session:<id>; the key wins over any id in the value.
func ParseRawSession(key, value string) (*RawSession, error) {
	id, ok := strings.CutPrefix(key, sessionKeyPrefix)
	if !ok || id == "" || strings.Contains(id, ":") {
		return nil, fmt.Errorf("invalid session key format: %s", key)
	}

	var raw RawSession
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse session JSON: %w", err)
	}

	raw.ID = id
	return &raw, nil
}

// ParseSessionOrder parses the meta:order value, a JSON array of session IDs
func ParseSessionOrder(value string) ([]string, error) {
	var order []string
	if err := json.Unmarshal([]byte(value), &order); err != nil {
		return nil, fmt.Errorf("failed to parse session order: %w", err)
	}
	return order, nil
}

// ToRaw converts a normalized session back into its storable form
func (s *Session) ToRaw() *RawSession {
	raw := &RawSession{
		ID:       s.ID,
		Title:    s.Title,
		Messages: make([]RawMessage, 0, len(s.Messages)),
		Chapters: make([]RawChapter, 0, len(s.Chapters)),
	}
	for _, msg := range s.Messages {
		raw.Messages = append(raw.Messages, RawMessage{ID: msg.ID, Role: string(msg.Role), Content: msg.Content})
	}
	for _, ch := range s.Chapters {
		raw.Chapters = append(raw.Chapters, RawChapter{
			ID:         ch.ID,
			Title:      ch.Title,
			StartIndex: ch.StartIndex,
			Summary:    ch.Summary,
		})
	}
	return raw
}

// ToJSON converts a RawSession to the JSON stored in workspaceKV
func (rs *RawSession) ToJSON() ([]byte, error) {
	return json.Marshal(rs)
}

// formatTimestamp formats a time as RFC3339
func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
