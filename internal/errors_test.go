package internal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		err  error
		want string
	}{
		{&StorageError{Path: "/data/sessions.db", Op: "open", Err: cause}, "cannot open /data/sessions.db: boom"},
		{&ParseError{Source: "sqlite", Key: "session:blockchain", Err: cause}, "invalid sqlite data at session:blockchain: boom"},
		{&SnapshotError{Dir: "/state", Op: "save", Err: cause}, "snapshot save in /state failed: boom"},
		{&ExportError{Format: "jsonl", Path: "out.jsonl", Err: cause}, "jsonl export to out.jsonl failed: boom"},
		{&SessionNotFoundError{ID: "missing"}, "session not found: missing"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	for _, err := range []error{
		&StorageError{Err: cause},
		&ParseError{Err: cause},
		&SnapshotError{Err: cause},
		&ExportError{Err: cause},
	} {
		wrapped := fmt.Errorf("outer: %w", err)
		assert.ErrorIs(t, wrapped, cause, "%T", err)
	}
}

func TestSessionNotFoundError_Matching(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &SessionNotFoundError{ID: "missing"})

	assert.ErrorIs(t, err, ErrSessionNotFound)

	var target *SessionNotFoundError
	if assert.ErrorAs(t, err, &target) {
		assert.Equal(t, "missing", target.ID)
	}
	assert.NotErrorIs(t, errors.New("session not found: missing"), ErrSessionNotFound)
}
