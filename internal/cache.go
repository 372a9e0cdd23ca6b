package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const snapshotVersion = "1.0"

// SnapshotStore persists workspace snapshots to a directory: a YAML index
// plus one JSON file per retained session history
type SnapshotStore struct {
	dir string
}

// SnapshotMetadata stores metadata about a saved snapshot
type SnapshotMetadata struct {
	InstanceID string    `yaml:"instance_id"`
	Version    string    `yaml:"version"`
	CreatedAt  time.Time `yaml:"created_at"`
	UpdatedAt  time.Time `yaml:"updated_at"`
}

// SnapshotIndexEntry represents a session entry in the index
type SnapshotIndexEntry struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title,omitempty"`
	MessageCount int    `yaml:"message_count"`
}

// SnapshotIndex is the workspace.yaml document
type SnapshotIndex struct {
	State    State                `yaml:"state"`
	Sessions []SnapshotIndexEntry `yaml:"sessions"`
	Metadata SnapshotMetadata     `yaml:"metadata"`
}

// NewSnapshotStore creates a store rooted at dir
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Dir returns the store directory
func (ss *SnapshotStore) Dir() string {
	return ss.dir
}

// IndexPath returns the path to the workspace index
func (ss *SnapshotStore) IndexPath() string {
	return filepath.Join(ss.dir, "workspace.yaml")
}

// SessionPath returns the path to a session's history file
func (ss *SnapshotStore) SessionPath(sessionID string) string {
	return filepath.Join(ss.dir, fmt.Sprintf("session_%s.json", sessionID))
}

// Exists reports whether a snapshot has been saved
func (ss *SnapshotStore) Exists() bool {
	_, err := os.Stat(ss.IndexPath())
	return err == nil
}

// LoadIndex loads the workspace index
func (ss *SnapshotStore) LoadIndex() (*SnapshotIndex, error) {
	data, err := os.ReadFile(ss.IndexPath())
	if err != nil {
		return nil, err
	}

	var index SnapshotIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	return &index, nil
}

// Save writes a snapshot, keeping the instance ID of an earlier save
func (ss *SnapshotStore) Save(snap *Snapshot) error {
	if err := os.MkdirAll(ss.dir, 0755); err != nil {
		return &SnapshotError{Dir: ss.dir, Op: "save", Err: err}
	}

	now := snap.SavedAt
	if now.IsZero() {
		now = time.Now()
	}
	meta := SnapshotMetadata{
		InstanceID: uuid.NewString(),
		Version:    snapshotVersion,
		CreatedAt:  now,
	}
	if prev, err := ss.LoadIndex(); err == nil {
		meta.InstanceID = prev.Metadata.InstanceID
		meta.CreatedAt = prev.Metadata.CreatedAt
		for _, entry := range prev.Sessions {
			_ = os.Remove(ss.SessionPath(entry.ID))
		}
	}
	meta.UpdatedAt = now

	index := SnapshotIndex{
		State:    snap.State,
		Sessions: make([]SnapshotIndexEntry, 0, len(snap.Sessions)),
		Metadata: meta,
	}
	for _, session := range snap.Sessions {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return &SnapshotError{Dir: ss.dir, Op: "save", Err: fmt.Errorf("failed to marshal session %s: %w", session.ID, err)}
		}
		if err := os.WriteFile(ss.SessionPath(session.ID), data, 0644); err != nil {
			return &SnapshotError{Dir: ss.dir, Op: "save", Err: err}
		}
		index.Sessions = append(index.Sessions, SnapshotIndexEntry{
			ID:           session.ID,
			Title:        session.Title,
			MessageCount: len(session.Messages),
		})
	}

	data, err := yaml.Marshal(&index)
	if err != nil {
		return &SnapshotError{Dir: ss.dir, Op: "save", Err: fmt.Errorf("failed to marshal index: %w", err)}
	}
	if err := os.WriteFile(ss.IndexPath(), data, 0644); err != nil {
		return &SnapshotError{Dir: ss.dir, Op: "save", Err: err}
	}
	LogDebug("Saved snapshot with %d sessions to %s", len(snap.Sessions), ss.dir)
	return nil
}

// Load reads the saved snapshot. Session files that cannot be read are
// logged and skipped.
func (ss *SnapshotStore) Load() (*Snapshot, error) {
	index, err := ss.LoadIndex()
	if err != nil {
		return nil, &SnapshotError{Dir: ss.dir, Op: "load", Err: err}
	}

	snap := &Snapshot{State: index.State, SavedAt: index.Metadata.UpdatedAt}
	for _, entry := range index.Sessions {
		data, err := os.ReadFile(ss.SessionPath(entry.ID))
		if err != nil {
			LogWarn("Snapshot session %s unreadable: %v", entry.ID, err)
			continue
		}
		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			LogWarn("Snapshot session %s: %v", entry.ID, &ParseError{Source: "snapshot", Key: ss.SessionPath(entry.ID), Err: err})
			continue
		}
		snap.Sessions = append(snap.Sessions, &session)
	}
	return snap, nil
}

// Clear removes the saved snapshot
func (ss *SnapshotStore) Clear() error {
	if index, err := ss.LoadIndex(); err == nil {
		for _, entry := range index.Sessions {
			_ = os.Remove(ss.SessionPath(entry.ID))
		}
	}
	if err := os.Remove(ss.IndexPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &SnapshotError{Dir: ss.dir, Op: "clear", Err: err}
	}
	return nil
}
