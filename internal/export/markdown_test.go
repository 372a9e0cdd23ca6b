package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/flux-workspace/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
		want    []string
		notWant []string
	}{
		{
			name:    "basic session",
			session: internal.CreateTestSession("test1"),
			want: []string{
				"# Test test1",
				"**Session:** test1",
				"**Messages:** 12",
				"## Chapters",
				"| 3 | 3. Chapter 3 | 6 | Summary of chapter 3 in test1 |",
				"## Messages",
				"**user:**",
				"test1 message 1",
				"**assistant:**",
			},
		},
		{
			name: "session with timestamp",
			session: &internal.Session{
				ID:    "test2",
				Title: "Timed",
				Messages: []internal.Message{
					{ID: 1, Role: internal.RoleUser, Content: "Hello", Timestamp: "2025-01-01T00:00:00Z"},
				},
			},
			want: []string{
				"**user:** (2025-01-01T00:00:00Z)",
			},
		},
		{
			name: "chapter cells stay on one line",
			session: &internal.Session{
				ID:    "test3",
				Title: "Pipes",
				Chapters: []internal.Chapter{
					{ID: 1, Title: "a|b", StartIndex: 0, Summary: "line one\nline two"},
				},
			},
			want: []string{
				"| 1 | a\\|b | 0 | line one line two |",
			},
		},
		{
			name:    "empty session",
			session: internal.CreateTestSessionWithMessages("test5", 0),
			want: []string{
				"# Test test5",
				"**Messages:** 0",
			},
			notWant: []string{"## Chapters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.Export(tt.session, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q", notWantStr)
				}
			}
		})
	}
}

func TestMarkdownExporter_Render(t *testing.T) {
	var plain, rendered bytes.Buffer
	session := internal.CreateTestSessionWithMessages("alpha", 2)

	if err := (&MarkdownExporter{}).Export(session, &plain); err != nil {
		t.Fatal(err)
	}
	exporter := &MarkdownExporter{Render: true, Width: 60, Style: "notty"}
	if err := exporter.Export(session, &rendered); err != nil {
		t.Fatalf("Export() with Render error = %v", err)
	}

	out := rendered.String()
	if out == plain.String() {
		t.Error("rendered output should differ from the plain document")
	}
	for _, want := range []string{"Test alpha", "alpha message 1", "alpha message 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q:\n%s", want, out)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := map[string]string{
		"Hello world":                   "Hello world",
		"This is **bold** text":         `This is \*\*bold\*\* text`,
		"snake __init__ names":          `snake \_\_init\_\_ names`,
		"# not a heading":               `\# not a heading`,
		"```go\n**x** := 1\n```\n**y**": "```go\n**x** := 1\n```\n" + `\*\*y\*\*`,
		"~~~\n# comment\n~~~":           "~~~\n# comment\n~~~",
		"inline ```code``` **b**":       "inline ```code``` " + `\*\*b\*\*`,
	}

	for input, want := range tests {
		if got := escapeMarkdown(input); got != want {
			t.Errorf("escapeMarkdown(%q) = %q, want %q", input, got, want)
		}
	}
}
