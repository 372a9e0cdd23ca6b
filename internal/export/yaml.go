package export

import (
	"fmt"
	"io"

	"github.com/iksnae/flux-workspace/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes a one-session catalog, so the file can be passed
// straight back to --catalog or `flux import`.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	catalog := internal.Catalog{Sessions: []internal.RawSession{*session.ToRaw()}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalog); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	return enc.Close()
}

func (e *YAMLExporter) Extension() string { return "yaml" }
