package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/flux-workspace/internal"
)

// MarkdownExporter exports sessions in Markdown format. With Render set the
// document is passed through glamour for terminal display.
type MarkdownExporter struct {
	Render bool
	Width  int    // word wrap for rendering; 0 means 80
	Style  string // glamour style name; empty picks one from the terminal
}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	if !e.Render {
		writeMarkdown(session, w)
		return nil
	}

	var buf bytes.Buffer
	writeMarkdown(session, &buf)
	out, err := RenderMarkdown(buf.String(), e.Width, e.Style)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeMarkdown(session *internal.Session, w io.Writer) {
	// Header
	_, _ = fmt.Fprintf(w, "# %s\n\n", session.Title)
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	if len(session.Chapters) > 0 {
		_, _ = fmt.Fprintf(w, "## Chapters\n\n")
		_, _ = fmt.Fprintf(w, "| # | Chapter | From message | Summary |\n")
		_, _ = fmt.Fprintf(w, "|---|---------|--------------|---------|\n")
		for _, ch := range session.Chapters {
			_, _ = fmt.Fprintf(w, "| %d | %s | %d | %s |\n", ch.ID, escapeCell(ch.Title), ch.StartIndex, escapeCell(ch.Summary))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range session.Messages {
		timestamp := ""
		if msg.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
		}

		content := escapeMarkdown(msg.Content)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, content)

		// Add horizontal rule after each message (except the last one)
		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
}

// RenderMarkdown renders a Markdown document for the terminal
func RenderMarkdown(md string, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style != "" {
		opts = append(opts, glamour.WithStandardStyle(style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

var emphasis = strings.NewReplacer("**", `\*\*`, "__", `\_\_`)

// escapeMarkdown stops chat text from turning into emphasis or headings.
// Lines inside ``` or ~~~ fences are copied unchanged.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		case strings.HasPrefix(trimmed, "```"), strings.HasPrefix(trimmed, "~~~"):
			fence = trimmed[:3]
		default:
			line = emphasis.Replace(line)
			if strings.HasPrefix(line, "#") {
				line = `\` + line
			}
			lines[i] = line
		}
	}
	return strings.Join(lines, "\n")
}

// escapeCell keeps table cells on one line
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(text, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
