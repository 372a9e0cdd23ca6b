package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
)

// Storage reads and writes sessions in the workspaceKV table
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// SessionIDs returns the stored session IDs. The meta:order key decides
// the order; IDs missing from it follow in key order.
func (s *Storage) SessionIDs() ([]string, error) {
	pairs, err := QueryWorkspaceKV(s.db, sessionKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	stored := make(map[string]bool, len(pairs))
	var keyed []string
	for _, pair := range pairs {
		id := pair.Key[len(sessionKeyPrefix):]
		if id == "" {
			continue
		}
		stored[id] = true
		keyed = append(keyed, id)
	}
	sort.Strings(keyed)

	var ids []string
	placed := make(map[string]bool, len(keyed))
	if value, ok, err := GetWorkspaceKV(s.db, SessionOrderKey); err != nil {
		return nil, err
	} else if ok {
		order, err := ParseSessionOrder(value)
		if err != nil {
			LogWarn("Ignoring %s: %v", SessionOrderKey, err)
		}
		for _, id := range order {
			if stored[id] && !placed[id] {
				ids = append(ids, id)
				placed[id] = true
			}
		}
	}
	for _, id := range keyed {
		if !placed[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// LoadSession loads and normalizes one session
func (s *Storage) LoadSession(id string) (*Session, error) {
	key := SessionKey(id)
	value, ok, err := GetWorkspaceKV(s.db, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &SessionNotFoundError{ID: id}
	}

	raw, err := ParseRawSession(key, value)
	if err != nil {
		return nil, &ParseError{Source: "sqlite", Key: key, Err: err}
	}
	return NewNormalizer().NormalizeSession(raw)
}

// LoadSessions loads every stored session in order, skipping bad rows
func (s *Storage) LoadSessions() ([]*Session, error) {
	ids, err := s.SessionIDs()
	if err != nil {
		return nil, err
	}

	sessions := make([]*Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.LoadSession(id)
		if err != nil {
			LogWarn("Skipping stored session %s: %v", id, err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// SaveSessions writes sessions and their order in one transaction
func (s *Storage) SaveSessions(sessions []*Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order := make([]string, 0, len(sessions))
	for _, session := range sessions {
		data, err := session.ToRaw().ToJSON()
		if err != nil {
			return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
		}
		if err := PutWorkspaceKV(tx, SessionKey(session.ID), string(data)); err != nil {
			return err
		}
		order = append(order, session.ID)
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal session order: %w", err)
	}
	if err := PutWorkspaceKV(tx, SessionOrderKey, string(orderJSON)); err != nil {
		return err
	}

	return tx.Commit()
}

// SQLiteRegistry is a Registry backed by a workspaceKV database. Sessions
// are read when they are looked up.
type SQLiteRegistry struct {
	storage *Storage
	ids     []string
}

// NewSQLiteRegistry reads the session list from db
func NewSQLiteRegistry(db *sql.DB) (*SQLiteRegistry, error) {
	storage := NewStorage(db)
	ids, err := storage.SessionIDs()
	if err != nil {
		return nil, err
	}
	return &SQLiteRegistry{storage: storage, ids: ids}, nil
}

// IDs implements Registry
func (r *SQLiteRegistry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Lookup implements Registry
func (r *SQLiteRegistry) Lookup(id string) (*Session, bool) {
	session, err := r.storage.LoadSession(id)
	if err != nil {
		LogDebug("SQLite lookup %s: %v", id, err)
		return nil, false
	}
	return session, true
}
