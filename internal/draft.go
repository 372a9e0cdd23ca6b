package internal

import "time"

// Draft is text captured while the workspace was offline
type Draft struct {
	Text     string    `json:"text" yaml:"text"`
	CachedAt time.Time `json:"cached_at" yaml:"cached_at"`
}

// DraftCache holds at most one draft. A second Store replaces the first;
// nothing is queued and the earlier text is lost.
type DraftCache struct {
	Slot *Draft `json:"slot,omitempty" yaml:"slot,omitempty"`
}

// Store returns a cache holding only text
func (d DraftCache) Store(text string, at time.Time) DraftCache {
	return DraftCache{Slot: &Draft{Text: text, CachedAt: at}}
}

// Clear returns an empty cache
func (d DraftCache) Clear() DraftCache {
	return DraftCache{}
}

// Occupied reports whether a draft is held
func (d DraftCache) Occupied() bool {
	return d.Slot != nil
}

// Text returns the cached text, if any
func (d DraftCache) Text() (string, bool) {
	if d.Slot == nil {
		return "", false
	}
	return d.Slot.Text, true
}
