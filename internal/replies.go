package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReplyPolicy decides where a deferred reply lands when the active session
// changed while it was pending
type ReplyPolicy int

const (
	// ReplyToActive appends to whatever session is active when the reply fires
	ReplyToActive ReplyPolicy = iota
	// ReplyToOrigin appends to the session the reply was issued against
	ReplyToOrigin
	// CancelOnSwitch drops pending replies of the session being left
	CancelOnSwitch
)

func (p ReplyPolicy) String() string {
	switch p {
	case ReplyToOrigin:
		return "origin"
	case CancelOnSwitch:
		return "cancel"
	default:
		return "active"
	}
}

// ParseReplyPolicy parses "active", "origin" or "cancel"
func ParseReplyPolicy(s string) (ReplyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return ReplyToActive, nil
	case "origin":
		return ReplyToOrigin, nil
	case "cancel", "cancel-on-switch":
		return CancelOnSwitch, nil
	default:
		return ReplyToActive, fmt.Errorf("unknown reply policy: %q (valid: active, origin, cancel)", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (p ReplyPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *ReplyPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseReplyPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PendingReply is an assistant reply waiting for its delay to elapse
type PendingReply struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	SessionID string    `json:"session_id" yaml:"session_id"`
	Content   string    `json:"content" yaml:"content"`
	Due       time.Time `json:"due" yaml:"due"`

	cancel CancelFunc
}

// replyQueue tracks pending replies in scheduling order
type replyQueue struct {
	pending []*PendingReply
}

func (q *replyQueue) add(r *PendingReply) {
	q.pending = append(q.pending, r)
}

func (q *replyQueue) remove(id uuid.UUID) bool {
	for i, r := range q.pending {
		if r.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

// cancelSession cancels and forgets every reply issued against sessionID
func (q *replyQueue) cancelSession(sessionID string) int {
	kept := q.pending[:0]
	n := 0
	for _, r := range q.pending {
		if r.SessionID != sessionID {
			kept = append(kept, r)
			continue
		}
		if r.cancel != nil && r.cancel() {
			n++
		}
	}
	q.pending = kept
	return n
}

// cancelAll cancels and forgets every reply
func (q *replyQueue) cancelAll() int {
	n := 0
	for _, r := range q.pending {
		if r.cancel != nil && r.cancel() {
			n++
		}
	}
	q.pending = nil
	return n
}

func (q *replyQueue) list() []PendingReply {
	out := make([]PendingReply, len(q.pending))
	for i, r := range q.pending {
		out[i] = *r
		out[i].cancel = nil
	}
	return out
}
