package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Deduplicator decides which sessions survive when several sources define
// the same ID. The first definition is kept. A later one with the same
// content is dropped quietly; one with different content is recorded as a
// conflict and logged.
type Deduplicator struct {
	digests   map[string]string
	conflicts []string
}

// NewDeduplicator creates an empty Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{digests: make(map[string]string)}
}

// Keep reports whether session is the first with its ID. Nil sessions are
// never kept.
func (d *Deduplicator) Keep(session *Session) bool {
	if session == nil {
		return false
	}
	digest := contentDigest(session)
	kept, seen := d.digests[session.ID]
	if !seen {
		d.digests[session.ID] = digest
		return true
	}
	if kept != digest {
		d.conflicts = append(d.conflicts, session.ID)
		LogWarn("Session %q defined more than once with different content, keeping the first", session.ID)
	}
	return false
}

// Deduplicate filters sessions through Keep, preserving input order
func (d *Deduplicator) Deduplicate(sessions []*Session) []*Session {
	var unique []*Session
	for _, session := range sessions {
		if d.Keep(session) {
			unique = append(unique, session)
		}
	}
	return unique
}

// Conflicts returns the IDs whose dropped definitions differed from the
// kept one, once per dropped definition
func (d *Deduplicator) Conflicts() []string {
	return append([]string(nil), d.conflicts...)
}

// contentDigest hashes everything but the session ID. Nil and empty
// slices hash the same.
func contentDigest(session *Session) string {
	messages, chapters := session.Messages, session.Chapters
	if messages == nil {
		messages = []Message{}
	}
	if chapters == nil {
		chapters = []Chapter{}
	}
	data, err := json.Marshal(struct {
		Title    string
		Messages []Message
		Chapters []Chapter
	}{session.Title, messages, chapters})
	if err != nil {
		// Every field is a plain string or number
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
