package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default timings, matching the reference behavior
const (
	DefaultReplyDelay     = 700 * time.Millisecond
	DefaultSyncReplyDelay = 800 * time.Millisecond
	DefaultPreviewLength  = 40
)

// Texts are the canned strings the workspace emits
type Texts struct {
	OnlineReply string `toml:"online_reply" yaml:"online_reply" env:"ONLINE_REPLY"`
	// SyncReply is a format string receiving the recovered draft preview
	SyncReply   string `toml:"sync_reply" yaml:"sync_reply" env:"SYNC_REPLY"`
	CachedToast string `toml:"cached_toast" yaml:"cached_toast" env:"CACHED_TOAST"`
	SyncedToast string `toml:"synced_toast" yaml:"synced_toast" env:"SYNCED_TOAST"`
	CopiedToast string `toml:"copied_toast" yaml:"copied_toast" env:"COPIED_TOAST"`
}

// DefaultTexts returns the reference strings
func DefaultTexts() Texts {
	return Texts{
		OnlineReply: "Context synchronized. New checkpoint created in your workflow timeline.",
		SyncReply:   "✅ Resilience Engine: Context synchronized. I've processed your offline draft regarding: \"%s...\". Proceeding with technical analysis now.",
		CachedToast: "Network Interrupted: Message Cached.",
		SyncedToast: "Context Re-synchronized",
		CopiedToast: "Prompt Copied",
	}
}

// CheckSyncReply reports whether tmpl formats the draft preview exactly
// once with no stray verbs. Write %% for a literal percent sign.
func CheckSyncReply(tmpl string) error {
	const marker = "\x00preview\x00"
	out := fmt.Sprintf(tmpl, marker)
	switch {
	case strings.Contains(out, "%!"):
		return fmt.Errorf("template %q must use exactly one %%s", tmpl)
	case strings.Count(out, marker) != 1:
		return fmt.Errorf("template %q must include the preview once", tmpl)
	}
	return nil
}

// withDefaults fills empty fields from DefaultTexts. An unusable sync reply
// template is replaced too.
func (t Texts) withDefaults() Texts {
	def := DefaultTexts()
	if t.OnlineReply == "" {
		t.OnlineReply = def.OnlineReply
	}
	if t.SyncReply == "" {
		t.SyncReply = def.SyncReply
	} else if err := CheckSyncReply(t.SyncReply); err != nil {
		LogWarn("Ignoring sync reply template: %v", err)
		t.SyncReply = def.SyncReply
	}
	if t.CachedToast == "" {
		t.CachedToast = def.CachedToast
	}
	if t.SyncedToast == "" {
		t.SyncedToast = def.SyncedToast
	}
	if t.CopiedToast == "" {
		t.CopiedToast = def.CopiedToast
	}
	return t
}

// Options configures a Workspace. Zero values select the defaults.
type Options struct {
	Registry  Registry
	Notifier  Notifier
	Scheduler Scheduler
	Clipboard Clipboard
	Now       func() time.Time

	ReplyDelay     time.Duration
	SyncReplyDelay time.Duration
	PreviewLength  int
	Policy         ReplyPolicy
	Texts          Texts

	// InitialSession is activated on creation; empty means the registry's
	// first session
	InitialSession string
	StartOffline   bool

	// OnReply is called after a deferred reply has been appended
	OnReply func(reply PendingReply, msg Message)
}

// Workspace ties the message stream, draft cache, checkpoint index and
// notifications together around one explicit State value.
//
// Workspace is not safe for concurrent use. All calls, including scheduler
// callbacks, must come from one logical thread such as a Loop.
type Workspace struct {
	opts     Options
	registry Registry
	state    State
	stream   *MessageStream
	indexes  map[string]*CheckpointIndex
	replies  replyQueue
}

// NewWorkspace creates a workspace and activates its initial session
func NewWorkspace(opts Options) (*Workspace, error) {
	if opts.Registry == nil {
		opts.Registry = NewMemoryRegistry()
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("workspace requires a scheduler")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = DefaultReplyDelay
	}
	if opts.SyncReplyDelay <= 0 {
		opts.SyncReplyDelay = DefaultSyncReplyDelay
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = DefaultPreviewLength
	}
	opts.Texts = opts.Texts.withDefaults()

	w := &Workspace{
		opts:     opts,
		registry: opts.Registry,
		stream:   NewMessageStream(opts.Now),
		indexes:  make(map[string]*CheckpointIndex),
	}

	initial := opts.InitialSession
	if initial == "" {
		if ids := w.registry.IDs(); len(ids) > 0 {
			initial = ids[0]
		}
	}
	w.state = NewState("")
	if initial != "" {
		if err := w.activate(initial); err != nil {
			return nil, err
		}
		w.state = w.state.SwitchSession(initial)
	}
	if opts.StartOffline {
		w.state = w.state.WithMode(ModeOffline)
	}

	LogDebug("Workspace ready: session=%q mode=%s policy=%s", w.state.ActiveSessionID, w.state.Mode, opts.Policy)
	return w, nil
}

// State returns the current state value
func (w *Workspace) State() State {
	return w.state
}

// Registry returns the registry used for first activations
func (w *Workspace) Registry() Registry {
	return w.registry
}

// SetRegistry swaps the registry. Sessions already activated keep their
// retained histories; only future first activations read the new one.
func (w *Workspace) SetRegistry(r Registry) {
	if r == nil {
		return
	}
	w.registry = r
}

// ActiveSession returns a copy of the active session with its current history
func (w *Workspace) ActiveSession() *Session {
	return w.stream.Active()
}

// Messages returns the full history of the active session
func (w *Workspace) Messages() []Message {
	return w.stream.Slice(0)
}

// Visible returns the viewport: the active messages from StartIndex on
func (w *Workspace) Visible() []Message {
	return w.stream.Slice(w.state.StartIndex)
}

// History returns a retained session history
func (w *Workspace) History(sessionID string) (*Session, bool) {
	return w.stream.History(sessionID)
}

// PendingReplies returns the replies not yet delivered, in scheduling order
func (w *Workspace) PendingReplies() []PendingReply {
	return w.replies.list()
}

// SwitchSession activates another session with a full-history viewport.
// An unknown ID returns *SessionNotFoundError and changes nothing.
func (w *Workspace) SwitchSession(id string) error {
	prev := w.state.ActiveSessionID
	if err := w.activate(id); err != nil {
		return err
	}
	if prev != id && w.opts.Policy == CancelOnSwitch {
		if n := w.replies.cancelSession(prev); n > 0 {
			LogDebug("Cancelled %d pending replies for %q", n, prev)
		}
	}
	w.state = w.state.SwitchSession(id)
	return nil
}

// activate makes id the active stream session, reading the registry only
// the first time a session is seen
func (w *Workspace) activate(id string) error {
	if w.stream.Has(id) {
		w.stream.Replace(&Session{ID: id})
		return nil
	}
	session, ok := w.registry.Lookup(id)
	if !ok {
		return &SessionNotFoundError{ID: id}
	}
	w.stream.Replace(session)
	w.indexes[id] = NewCheckpointIndex(session.Chapters)
	LogDebug("Activated session %s", session)
	return nil
}

// index returns the checkpoint index of the active session
func (w *Workspace) index() *CheckpointIndex {
	if idx, ok := w.indexes[w.stream.ActiveID()]; ok {
		return idx
	}
	return NewCheckpointIndex(nil)
}

// scheduleReply queues an assistant reply against the active session
func (w *Workspace) scheduleReply(delay time.Duration, content string) PendingReply {
	reply := &PendingReply{
		ID:        uuid.New(),
		SessionID: w.stream.ActiveID(),
		Content:   content,
		Due:       w.opts.Now().Add(delay),
	}
	reply.cancel = w.opts.Scheduler.Schedule(delay, func() { w.deliver(reply) })
	w.replies.add(reply)
	return *reply
}

// deliver appends a due reply according to the reply policy
func (w *Workspace) deliver(reply *PendingReply) {
	if !w.replies.remove(reply.ID) {
		return
	}

	active := w.stream.ActiveID()
	var msg Message
	switch {
	case reply.SessionID == active:
		msg = w.stream.Append(RoleAssistant, reply.Content)
	case w.opts.Policy == ReplyToOrigin:
		var ok bool
		msg, ok = w.stream.AppendTo(reply.SessionID, RoleAssistant, reply.Content)
		if !ok {
			LogWarn("Reply %s: origin session %q is gone, dropping", reply.ID, reply.SessionID)
			return
		}
	default:
		LogWarn("Reply %s issued in %q landed in %q", reply.ID, reply.SessionID, active)
		msg = w.stream.Append(RoleAssistant, reply.Content)
	}

	if w.opts.OnReply != nil {
		delivered := *reply
		delivered.cancel = nil
		w.opts.OnReply(delivered, msg)
	}
}

// Snapshot is the serializable form of a workspace
type Snapshot struct {
	State    State      `json:"state" yaml:"state"`
	Sessions []*Session `json:"sessions" yaml:"sessions"`
	SavedAt  time.Time  `json:"saved_at" yaml:"saved_at"`
}

// Snapshot captures the state and every retained history. Pending replies
// are not included.
func (w *Workspace) Snapshot() *Snapshot {
	return &Snapshot{
		State:    w.state,
		Sessions: w.stream.Retained(),
		SavedAt:  w.opts.Now(),
	}
}

// Restore replaces the workspace contents with a snapshot. Pending replies
// are cancelled.
func (w *Workspace) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}

	stream := NewMessageStream(w.opts.Now)
	indexes := make(map[string]*CheckpointIndex, len(snap.Sessions))
	for _, s := range snap.Sessions {
		if s == nil {
			continue
		}
		stream.Restore(s)
		indexes[s.ID] = NewCheckpointIndex(s.Chapters)
	}

	state := snap.State
	if id := state.ActiveSessionID; id != "" {
		if !stream.Has(id) {
			session, ok := w.registry.Lookup(id)
			if !ok {
				return &SessionNotFoundError{ID: id}
			}
			stream.Restore(session)
			indexes[id] = NewCheckpointIndex(session.Chapters)
		}
		stream.Replace(&Session{ID: id})
	}
	state.StartIndex = ClampOffset(state.StartIndex, stream.Len())

	if n := w.replies.cancelAll(); n > 0 {
		LogDebug("Restore cancelled %d pending replies", n)
	}
	w.stream = stream
	w.indexes = indexes
	w.state = state
	return nil
}
