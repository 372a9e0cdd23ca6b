package internal

// OpenTimeline shows the chapter navigator
func (w *Workspace) OpenTimeline() {
	w.state = w.state.OpenTimeline()
}

// CloseTimeline hides the chapter navigator
func (w *Workspace) CloseTimeline() {
	w.state = w.state.CloseTimeline()
}

// JumpToChapter moves the viewport to a chapter of the active session and
// closes the navigator. An unknown chapter changes nothing and returns false.
// Resetting the scroll position is left to the presentation layer.
func (w *Workspace) JumpToChapter(chapterID int) bool {
	offset, ok := w.index().Offset(chapterID, w.stream.Len())
	if !ok {
		LogDebug("Chapter %d not found in %q", chapterID, w.stream.ActiveID())
		return false
	}
	w.state = w.state.JumpTo(offset)
	return true
}

// JumpToIndex moves the viewport to a raw offset, clamped to the history
func (w *Workspace) JumpToIndex(offset int) {
	w.state = w.state.JumpTo(ClampOffset(offset, w.stream.Len()))
}

// RestoreFullHistory moves the viewport back to the first message
func (w *Workspace) RestoreFullHistory() {
	w.state = w.state.RestoreFullHistory()
}

// ListChapters returns the active session's chapters in registry order
func (w *Workspace) ListChapters() []Chapter {
	return w.index().Chapters()
}

// ListChaptersOf returns the chapters of any session, retained or not
func (w *Workspace) ListChaptersOf(sessionID string) ([]Chapter, error) {
	if idx, ok := w.indexes[sessionID]; ok {
		return idx.Chapters(), nil
	}
	session, ok := w.registry.Lookup(sessionID)
	if !ok {
		return nil, &SessionNotFoundError{ID: sessionID}
	}
	return NewCheckpointIndex(session.Chapters).Chapters(), nil
}

// CopySummary writes a chapter summary of the active session to the
// clipboard verbatim. It returns false for an unknown chapter.
func (w *Workspace) CopySummary(chapterID int) (bool, error) {
	ch, ok := w.index().Lookup(chapterID)
	if !ok {
		return false, nil
	}
	if err := w.opts.Clipboard.WriteText(ch.Summary); err != nil {
		w.opts.Notifier.Notify(KindError, "Copy failed: "+err.Error())
		return true, err
	}
	w.opts.Notifier.Notify(KindSuccess, w.opts.Texts.CopiedToast)
	return true, nil
}
