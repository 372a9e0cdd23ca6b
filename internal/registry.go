package internal

// Registry supplies sessions by ID. The workspace reads it only when a
// session is activated for the first time and never writes to it.
type Registry interface {
	// IDs returns the session IDs in display order
	IDs() []string
	// Lookup returns a copy of the session
	Lookup(id string) (*Session, bool)
}

// MemoryRegistry is an ordered, in-memory Registry
type MemoryRegistry struct {
	order    []string
	sessions map[string]*Session
}

// NewMemoryRegistry builds a registry from sessions, deduplicated by ID
func NewMemoryRegistry(sessions ...*Session) *MemoryRegistry {
	r := &MemoryRegistry{sessions: make(map[string]*Session)}
	for _, s := range NewDeduplicator().Deduplicate(sessions) {
		r.order = append(r.order, s.ID)
		r.sessions[s.ID] = s.Clone()
	}
	return r
}

// IDs implements Registry
func (r *MemoryRegistry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Lookup implements Registry
func (r *MemoryRegistry) Lookup(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Len returns the number of sessions
func (r *MemoryRegistry) Len() int {
	return len(r.order)
}

// Sessions returns copies of every session in order
func (r *MemoryRegistry) Sessions() []*Session {
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id].Clone())
	}
	return out
}

// MergeRegistries combines registries into one. Earlier registries win
// when two define the same session ID.
func MergeRegistries(registries ...Registry) *MemoryRegistry {
	var all []*Session
	for _, reg := range registries {
		if reg == nil {
			continue
		}
		for _, id := range reg.IDs() {
			if s, ok := reg.Lookup(id); ok {
				all = append(all, s)
			}
		}
	}
	return NewMemoryRegistry(all...)
}
