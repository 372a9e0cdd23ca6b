package internal

import (
	"fmt"
	"strings"
)

// Normalizer converts authored raw sessions to Session format
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeSession converts a RawSession to a Session.
// Messages without an ID are numbered after the highest ID seen so far.
func (n *Normalizer) NormalizeSession(raw *RawSession) (*Session, error) {
	if raw == nil {
		return nil, fmt.Errorf("session is nil")
	}

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return nil, fmt.Errorf("session has no id")
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = id
	}

	messages := make([]Message, 0, len(raw.Messages))
	var lastID int64
	seen := make(map[int64]bool, len(raw.Messages))
	for _, rm := range raw.Messages {
		msg := n.normalizeMessage(rm)
		if msg.ID <= 0 || seen[msg.ID] {
			msg.ID = lastID + 1
		}
		if msg.ID > lastID {
			lastID = msg.ID
		}
		seen[msg.ID] = true
		messages = append(messages, msg)
	}

	chapters := make([]Chapter, 0, len(raw.Chapters))
	for _, rc := range raw.Chapters {
		chapters = append(chapters, n.normalizeChapter(rc))
	}

	return &Session{
		ID:       id,
		Title:    title,
		Messages: messages,
		Chapters: chapters,
	}, nil
}

// normalizeMessage converts a RawMessage to a Message
func (n *Normalizer) normalizeMessage(rm RawMessage) Message {
	return Message{
		ID:      rm.ID,
		Role:    n.normalizeRole(rm.Role),
		Content: rm.Content,
	}
}

func (n *Normalizer) normalizeChapter(rc RawChapter) Chapter {
	summary := rc.Summary
	if summary == "" {
		summary = rc.SuperPrompt
	}
	return Chapter{
		ID:         rc.ID,
		Title:      strings.TrimSpace(rc.Title),
		StartIndex: rc.StartIndex,
		Summary:    summary,
	}
}

// normalizeRole maps authored role names to a Role
func (n *Normalizer) normalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "ai", "assistant", "bot", "model":
		return RoleAssistant
	default:
		return RoleUser
	}
}

// NormalizeAll normalizes all raw sessions, skipping the ones that fail
func (n *Normalizer) NormalizeAll(raws []*RawSession) []*Session {
	sessions := make([]*Session, 0, len(raws))
	for _, raw := range raws {
		session, err := n.NormalizeSession(raw)
		if err != nil {
			LogWarn("Skipping session: %v", err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions
}
