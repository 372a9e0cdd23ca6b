package internal

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is the YAML document format for session definitions
type Catalog struct {
	Sessions []RawSession `yaml:"sessions"`
}

// ParseCatalog decodes a catalog document. source names the document in
// errors.
func ParseCatalog(data []byte, source string) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, &ParseError{Source: "catalog", Key: source, Err: err}
	}
	return &cat, nil
}

// LoadCatalogFile reads and parses a catalog file
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}
	return ParseCatalog(data, path)
}

// BuiltinCatalog returns the embedded demo catalog
func BuiltinCatalog() *Catalog {
	cat, err := ParseCatalog(builtinCatalog, "builtin")
	if err != nil {
		// The embedded file is part of the build; a parse failure is a bug.
		panic(fmt.Sprintf("builtin catalog: %v", err))
	}
	return cat
}

// Registry normalizes the catalog into a registry. Sessions that fail to
// normalize are logged and skipped.
func (c *Catalog) Registry() *MemoryRegistry {
	raws := make([]*RawSession, 0, len(c.Sessions))
	for i := range c.Sessions {
		raws = append(raws, &c.Sessions[i])
	}
	return NewMemoryRegistry(NewNormalizer().NormalizeAll(raws)...)
}

// MarshalCatalog encodes sessions as a catalog document
func MarshalCatalog(sessions []*Session) ([]byte, error) {
	cat := Catalog{Sessions: make([]RawSession, 0, len(sessions))}
	for _, s := range sessions {
		cat.Sessions = append(cat.Sessions, *s.ToRaw())
	}
	data, err := yaml.Marshal(&cat)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}
