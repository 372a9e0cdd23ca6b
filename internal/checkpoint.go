package internal

// CheckpointIndex maps chapter IDs to offsets into a session's messages
type CheckpointIndex struct {
	chapters []Chapter
	byID     map[int]int
}

// NewCheckpointIndex indexes chapters, keeping their registry order.
// If two chapters share an ID the first one wins.
func NewCheckpointIndex(chapters []Chapter) *CheckpointIndex {
	ci := &CheckpointIndex{
		chapters: append(make([]Chapter, 0, len(chapters)), chapters...),
		byID:     make(map[int]int, len(chapters)),
	}
	for i, ch := range ci.chapters {
		if _, dup := ci.byID[ch.ID]; dup {
			LogDebug("Duplicate chapter id %d (%q), keeping the first", ch.ID, ch.Title)
			continue
		}
		ci.byID[ch.ID] = i
	}
	return ci
}

// Chapters returns the chapters unmodified, in registry order
func (ci *CheckpointIndex) Chapters() []Chapter {
	return append(make([]Chapter, 0, len(ci.chapters)), ci.chapters...)
}

// Lookup finds a chapter by ID
func (ci *CheckpointIndex) Lookup(id int) (Chapter, bool) {
	i, ok := ci.byID[id]
	if !ok {
		return Chapter{}, false
	}
	return ci.chapters[i], true
}

// Offset returns the clamped viewport start for a chapter
func (ci *CheckpointIndex) Offset(id int, length int) (int, bool) {
	ch, ok := ci.Lookup(id)
	if !ok {
		return 0, false
	}
	return ClampOffset(ch.StartIndex, length), true
}

// Len returns the number of chapters
func (ci *CheckpointIndex) Len() int {
	return len(ci.chapters)
}

// ClampOffset maps any offset onto [0, length]. Offsets past the end jump
// to the end, which renders an empty viewport instead of failing.
func ClampOffset(offset, length int) int {
	if offset < 0 {
		return 0
	}
	if offset > length {
		return length
	}
	return offset
}
