// Package export writes sessions to files in one of several formats.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iksnae/flux-workspace/internal"
)

// Exporter writes one session in a single format
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
}

// formats maps every accepted --format value to a constructor. Aliases
// share a constructor with their canonical name.
var formats = map[string]func() Exporter{
	"jsonl":    func() Exporter { return &JSONLExporter{} },
	"json":     func() Exporter { return &JSONExporter{Indent: "  "} },
	"yaml":     func() Exporter { return &YAMLExporter{} },
	"yml":      func() Exporter { return &YAMLExporter{} },
	"md":       func() Exporter { return &MarkdownExporter{} },
	"markdown": func() Exporter { return &MarkdownExporter{} },
}

// Formats lists the canonical format names, one per file extension
func Formats() []string {
	seen := make(map[string]bool)
	var names []string
	for _, newExporter := range formats {
		ext := newExporter().Extension()
		if !seen[ext] {
			seen[ext] = true
			names = append(names, ext)
		}
	}
	sort.Strings(names)
	return names
}

// NewExporter returns the exporter registered for format. Format names are
// case-insensitive.
func NewExporter(format string) (Exporter, error) {
	newExporter, ok := formats[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return newExporter(), nil
}

// Viewport returns a copy of session holding only the messages from offset
// onwards, the same slice the workspace shows after a chapter jump.
// Chapters are kept so the export still lists every checkpoint.
func Viewport(session *internal.Session, offset int) *internal.Session {
	out := session.Clone()
	offset = internal.ClampOffset(offset, len(out.Messages))
	out.Messages = out.Messages[offset:]
	return out
}
