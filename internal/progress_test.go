package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpinner = spinner.Spinner{Frames: []string{"-", "+"}, FPS: 5 * time.Millisecond}

func TestSpin_Outcome(t *testing.T) {
	failure := errors.New("disk full")

	tests := []struct {
		name string
		err  error
		mark string
	}{
		{name: "success", mark: "✓ Importing"},
		{name: "failure", err: failure, mark: "✗ Importing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := spin(context.Background(), &buf, testSpinner, "Importing", func() error {
				time.Sleep(20 * time.Millisecond)
				return tt.err
			})

			assert.Equal(t, tt.err, err)
			out := buf.String()
			assert.Contains(t, out, "- Importing", "first frame is drawn immediately")
			assert.True(t, strings.HasSuffix(out, tt.mark+"\n"), "output %q", out)
		})
	}
}

func TestSpin_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	var buf bytes.Buffer
	err := spin(ctx, &buf, testSpinner, "Exporting", func() error {
		<-release
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, buf.String(), "✗ Exporting")
}

func TestShowProgressWithSteps(t *testing.T) {
	var ran []string
	step := func(name string, err error) ProgressStep {
		return ProgressStep{Message: name, Fn: func() error {
			ran = append(ran, name)
			return err
		}}
	}

	require.NoError(t, ShowProgressWithSteps(context.Background(), nil))

	err := ShowProgressWithSteps(context.Background(), []ProgressStep{
		step("load", nil),
		step("write", errors.New("locked")),
		step("index", nil),
	})
	assert.EqualError(t, err, "write: locked")
	assert.Equal(t, []string{"load", "write"}, ran, "stops at the first failure")
}

func TestPrintSuccess_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))

	PrintSuccess(&buf, "Export complete")
	assert.Equal(t, "Export complete\n", buf.String())
}
