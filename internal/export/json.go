package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/flux-workspace/internal"
)

// JSONExporter writes a session as one JSON document. The session fields sit
// at the top level next to a few counters, so the output still decodes into
// an internal.Session.
type JSONExporter struct {
	// Indent is repeated once per nesting level; empty writes compact JSON
	Indent string
}

type jsonDocument struct {
	*internal.Session
	MessageCount int   `json:"message_count"`
	FirstMessage int64 `json:"first_message,omitempty"`
}

func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	doc := jsonDocument{Session: session, MessageCount: len(session.Messages)}
	if len(session.Messages) > 0 {
		doc.FirstMessage = session.Messages[0].ID
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if e.Indent != "" {
		enc.SetIndent("", e.Indent)
	}
	return enc.Encode(doc)
}

func (e *JSONExporter) Extension() string { return "json" }
