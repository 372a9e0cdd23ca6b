package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/flux-workspace/internal"
)

// JSONLExporter writes one JSON object per message. Each line carries the
// session ID and its position in the export, so lines from several sessions
// can be concatenated and still be told apart.
type JSONLExporter struct{}

type jsonlLine struct {
	Session   string        `json:"session"`
	Seq       int           `json:"seq"`
	ID        int64         `json:"id"`
	Role      internal.Role `json:"role"`
	Content   string        `json:"content"`
	Timestamp string        `json:"timestamp,omitempty"`
}

func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, msg := range session.Messages {
		line := jsonlLine{
			Session:   session.ID,
			Seq:       i + 1,
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("message %d: %w", msg.ID, err)
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string { return "jsonl" }
