package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// ProgressStep is one named stage of a longer operation
type ProgressStep struct {
	Message string
	Fn      func() error
}

// ShowProgress runs fn and reports it on stderr: behind a spinner on a
// terminal, as a log line otherwise
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !IsTerminal(os.Stderr) {
		LogInfo(message)
		return fn()
	}
	return spin(ctx, os.Stderr, spinner.MiniDot, message, fn)
}

// ShowProgressWithSteps runs steps in order and stops at the first failure,
// numbering each one as [i/n]
func ShowProgressWithSteps(ctx context.Context, steps []ProgressStep) error {
	for i, step := range steps {
		label := fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Message)
		if err := ShowProgress(ctx, label, step.Fn); err != nil {
			return fmt.Errorf("%s: %w", step.Message, err)
		}
	}
	return nil
}

// spin redraws one line of w with the frames of s until fn returns or ctx
// ends. fn keeps running in the background after a cancellation.
func spin(ctx context.Context, w io.Writer, s spinner.Spinner, message string, fn func() error) error {
	result := make(chan error, 1)
	go func() { result <- fn() }()

	ticker := time.NewTicker(s.FPS)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		fmt.Fprintf(w, "\r%s %s", spinnerStyle.Render(s.Frames[frame%len(s.Frames)]), message)

		select {
		case err := <-result:
			mark := doneStyle.Render("✓")
			if err != nil {
				mark = failedStyle.Render("✗")
			}
			fmt.Fprintf(w, "\r%s %s\n", mark, message)
			return err
		case <-ctx.Done():
			fmt.Fprintf(w, "\r%s %s\n", failedStyle.Render("✗"), message)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintSuccess writes a check-marked line to w, or the bare message when w
// is not a terminal
func PrintSuccess(w io.Writer, message string) {
	if IsTerminal(w) {
		message = doneStyle.Render("✓") + " " + message
	}
	fmt.Fprintln(w, message)
}
